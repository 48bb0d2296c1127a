package model

// AstronomyShow is a show in the catalog. Themes is the list of theme
// names attached through the astronomy_show_themes join table; shows
// and themes are many-to-many with the show as the owning side.
// ImagePath is the media-relative poster path; it is resolved to a URL
// at the handler layer and never serialized directly.
type AstronomyShow struct {
	ID          uint64   `json:"id"`                    // astronomy_shows.id
	Title       string   `json:"title"`                 // astronomy_shows.title
	Description *string  `json:"description,omitempty"` // astronomy_shows.description (nullable)
	ImagePath   *string  `json:"-"`                     // astronomy_shows.image_path (nullable)
	Themes      []string `json:"themes"`                // theme names via the join table
}

// ShowTheme is a category label shows can be tagged with. Names are
// unique at the storage layer.
type ShowTheme struct {
	ID   uint64 `json:"id"`   // show_themes.id
	Name string `json:"name"` // show_themes.name
}
