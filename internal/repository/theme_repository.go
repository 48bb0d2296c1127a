package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// ThemeRepo provides persistence for show themes. Theme names carry a
// unique index; duplicate inserts surface as ErrThemeNameExists.
type ThemeRepo struct {
	db *sql.DB
}

// NewThemeRepo constructs a ThemeRepo bound to the given database.
func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// Create inserts a theme and populates its generated ID.
func (r *ThemeRepo) Create(ctx context.Context, t *model.ShowTheme) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO show_themes (name) VALUES (?)`, t.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrThemeNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns a theme or ErrThemeNotFound.
func (r *ThemeRepo) GetByID(ctx context.Context, id uint64) (*model.ShowTheme, error) {
	var t model.ShowTheme
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM show_themes WHERE id = ?`, id).
		Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns themes ordered by id. When search is non-empty, only
// themes whose name contains it (case-insensitive) are returned.
func (r *ThemeRepo) List(ctx context.Context, search string) ([]model.ShowTheme, error) {
	q := `SELECT id, name FROM show_themes`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	q += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ShowTheme, 0)
	for rows.Next() {
		var t model.ShowTheme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update renames a theme. ErrThemeNameExists on collision with another
// theme, ErrThemeNotFound when the id does not exist.
func (r *ThemeRepo) Update(ctx context.Context, t *model.ShowTheme) error {
	res, err := r.db.ExecContext(ctx, `UPDATE show_themes SET name = ? WHERE id = ?`, t.Name, t.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrThemeNameExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a theme; join rows cascade at the DB.
func (r *ThemeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM show_themes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrThemeNotFound
	}
	return nil
}

// IDsByNames resolves theme names to IDs in one query. A name with no
// matching theme yields ErrThemeNotFound; shows may only reference
// themes that already exist.
func (r *ThemeRepo) IDsByNames(ctx context.Context, names []string) ([]uint64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, n := range names {
		placeholders[i] = "?"
		args[i] = n
	}
	q := `SELECT id, name FROM show_themes WHERE name IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byName := make(map[string]uint64, len(names))
	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		byName[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(names))
	for _, n := range names {
		id, ok := byName[n]
		if !ok {
			return nil, ErrThemeNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}
