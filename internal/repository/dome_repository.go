package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// DomeRepo provides persistence for planetarium domes. The geometry
// columns (seat_rows, seat_in_row) are the source of truth for every
// seat validation in the system.
type DomeRepo struct {
	db *sql.DB
}

// NewDomeRepo constructs a DomeRepo bound to the given database.
func NewDomeRepo(db *sql.DB) *DomeRepo { return &DomeRepo{db: db} }

// Create inserts a dome and populates its generated ID.
func (r *DomeRepo) Create(ctx context.Context, d *model.PlanetariumDome) error {
	const q = `INSERT INTO planetarium_domes (name, seat_rows, seat_in_row) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.Rows, d.SeatInRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID returns a dome or ErrDomeNotFound.
func (r *DomeRepo) GetByID(ctx context.Context, id uint64) (*model.PlanetariumDome, error) {
	const q = `SELECT id, name, seat_rows, seat_in_row FROM planetarium_domes WHERE id = ?`
	var d model.PlanetariumDome
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Rows, &d.SeatInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDomeNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all domes ordered by id.
func (r *DomeRepo) List(ctx context.Context) ([]model.PlanetariumDome, error) {
	const q = `SELECT id, name, seat_rows, seat_in_row FROM planetarium_domes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PlanetariumDome, 0)
	for rows.Next() {
		var d model.PlanetariumDome
		if err := rows.Scan(&d.ID, &d.Name, &d.Rows, &d.SeatInRow); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites name and geometry of an existing dome. Returns
// ErrDomeNotFound when no row matches.
func (r *DomeRepo) Update(ctx context.Context, d *model.PlanetariumDome) error {
	const q = `UPDATE planetarium_domes SET name = ?, seat_rows = ?, seat_in_row = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, d.Name, d.Rows, d.SeatInRow, d.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the update is a no-op; confirm existence.
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a dome; sessions scheduled in it cascade at the DB.
func (r *DomeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planetarium_domes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDomeNotFound
	}
	return nil
}
