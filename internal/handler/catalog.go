package handler

import (
	"github.com/orbitarium/planetarium-reservation/internal/repository"
	"github.com/orbitarium/planetarium-reservation/internal/storage"
)

// CatalogHandler bundles the repositories behind the browse and admin
// catalog endpoints: shows, themes, domes and sessions.
type CatalogHandler struct {
	Shows     *repository.ShowRepo
	Themes    *repository.ThemeRepo
	Domes     *repository.DomeRepo
	Sessions  *repository.SessionRepo
	Media     *storage.MediaCache // nil disables image URLs in responses
	MediaRoot string              // local directory image uploads land in
}

func NewCatalogHandler(shows *repository.ShowRepo, themes *repository.ThemeRepo, domes *repository.DomeRepo, sessions *repository.SessionRepo, media *storage.MediaCache, mediaRoot string) *CatalogHandler {
	if shows == nil || themes == nil || domes == nil || sessions == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Shows: shows, Themes: themes, Domes: domes, Sessions: sessions, Media: media, MediaRoot: mediaRoot}
}
