package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// ShowRepo provides persistence for astronomy shows and their theme
// links. Theme attachment rewrites the join table inside the caller's
// transaction so a show and its themes always change together.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the show row and its theme links.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a show within an existing transaction and populates
// the generated ID. Theme links are attached separately via SetThemesTx.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.AstronomyShow) error {
	const q = `INSERT INTO astronomy_shows (title, description, image_path) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Title, s.Description, s.ImagePath)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// UpdateTx rewrites title and description of an existing show inside
// the caller's transaction. The image path is owned by SetImagePath and
// survives ordinary updates.
func (r *ShowRepo) UpdateTx(ctx context.Context, tx *sql.Tx, s *model.AstronomyShow) error {
	const q = `UPDATE astronomy_shows SET title = ?, description = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, s.Title, s.Description, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := tx.QueryRowContext(ctx, `SELECT id FROM astronomy_shows WHERE id = ?`, s.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	return nil
}

// SetImagePath stores the uploaded image's path for a show.
func (r *ShowRepo) SetImagePath(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE astronomy_shows SET image_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM astronomy_shows WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	return nil
}

// SetThemesTx replaces the show's theme links with the given theme IDs.
func (r *ShowRepo) SetThemesTx(ctx context.Context, tx *sql.Tx, showID uint64, themeIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM astronomy_show_themes WHERE show_id = ?`, showID); err != nil {
		return err
	}
	if len(themeIDs) == 0 {
		return nil
	}
	q := `INSERT INTO astronomy_show_themes (show_id, theme_id) VALUES `
	args := make([]any, 0, len(themeIDs)*2)
	for i, id := range themeIDs {
		if i > 0 {
			q += ","
		}
		q += "(?, ?)"
		args = append(args, showID, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// GetByID returns a show with its theme names, or ErrShowNotFound.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.AstronomyShow, error) {
	const q = `SELECT id, title, description, image_path FROM astronomy_shows WHERE id = ?`
	var s model.AstronomyShow
	var desc, img sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Title, &desc, &img)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	if img.Valid {
		p := img.String
		s.ImagePath = &p
	}
	s.Themes = []string{}

	const themeQ = `SELECT t.name
	                FROM astronomy_show_themes st
	                JOIN show_themes t ON t.id = st.theme_id
	                WHERE st.show_id = ?
	                ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, themeQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		s.Themes = append(s.Themes, name)
	}
	return &s, rows.Err()
}

// List returns shows with theme names attached. When search is
// non-empty, only shows whose title contains it (case-insensitive) are
// returned. Themes for the whole page are loaded in one IN query.
func (r *ShowRepo) List(ctx context.Context, search string) ([]model.AstronomyShow, error) {
	q := `SELECT id, title, description, image_path FROM astronomy_shows`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	q += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]model.AstronomyShow, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var s model.AstronomyShow
		var desc, img sql.NullString
		if err := rows.Scan(&s.ID, &s.Title, &desc, &img); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			s.Description = &d
		}
		if img.Valid {
			p := img.String
			s.ImagePath = &p
		}
		s.Themes = []string{}
		index[s.ID] = len(shows)
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return shows, nil
	}

	ids := make([]any, 0, len(shows))
	placeholders := make([]string, 0, len(shows))
	for _, s := range shows {
		ids = append(ids, s.ID)
		placeholders = append(placeholders, "?")
	}
	themeQ := `SELECT st.show_id, t.name
	           FROM astronomy_show_themes st
	           JOIN show_themes t ON t.id = st.theme_id
	           WHERE st.show_id IN (` + strings.Join(placeholders, ",") + `)
	           ORDER BY st.show_id, t.name`
	trows, err := r.db.QueryContext(ctx, themeQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var showID uint64
		var name string
		if err := trows.Scan(&showID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[showID]; ok {
			shows[i].Themes = append(shows[i].Themes, name)
		}
	}
	return shows, trows.Err()
}

// Delete removes a show; sessions and theme links cascade at the DB.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM astronomy_shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}
