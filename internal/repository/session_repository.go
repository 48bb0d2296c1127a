package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// SessionRepo provides persistence for show sessions and derives seat
// availability for listings.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// SessionListItem is one row of the session listing. TicketsAvailable
// is dome capacity minus committed tickets, computed by the database in
// the listing query itself. A negative value means the uniqueness
// invariant on tickets was violated; it is reported as computed, never
// clamped.
type SessionListItem struct {
	ID               uint64    `json:"id"`
	ShowTime         time.Time `json:"show_time"`
	ShowID           uint64    `json:"astronomy_show"`
	ShowTitle        string    `json:"astronomy_show_title"`
	DomeID           uint64    `json:"planetarium_dome"`
	DomeName         string    `json:"planetarium_dome_name"`
	TicketsAvailable int64     `json:"tickets_available"`
}

// SessionDetail is the retrieve view: the session with its show and
// dome nested in full. No availability annotation is carried here.
type SessionDetail struct {
	ID       uint64            `json:"id"`
	ShowTime time.Time         `json:"show_time"`
	Show     SessionDetailShow `json:"astronomy_show"`
	Dome     SessionDetailDome `json:"planetarium_dome"`
}

// SessionDetailShow nests the show inside a session detail.
type SessionDetailShow struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Themes      []string `json:"themes"`
}

// SessionDetailDome nests the dome, with derived capacity and size.
type SessionDetailDome struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatInRow  uint32 `json:"seat_in_row"`
	TotalSeats uint32 `json:"total_seats"`
	Size       string `json:"size,omitempty"`
}

// ListWithAvailability returns every session with its availability in a
// single aggregate query: capacity minus COUNT(DISTINCT tickets), one
// GROUP BY over a LEFT JOIN, so listing N sessions costs one round trip
// rather than N+1. When search is non-empty, sessions are filtered by
// their show's title (case-insensitive).
func (r *SessionRepo) ListWithAvailability(ctx context.Context, search string) ([]SessionListItem, error) {
	q := `SELECT ss.id, ss.show_time,
	             sh.id, sh.title,
	             d.id, d.name,
	             d.seat_rows * d.seat_in_row - COUNT(DISTINCT t.id) AS tickets_available
	      FROM show_sessions ss
	      JOIN astronomy_shows sh ON sh.id = ss.astronomy_show_id
	      JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	      LEFT JOIN tickets t ON t.show_session_id = ss.id`
	args := []any{}
	if search != "" {
		q += ` WHERE LOWER(sh.title) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	q += ` GROUP BY ss.id, ss.show_time, sh.id, sh.title, d.id, d.name, d.seat_rows, d.seat_in_row
	      ORDER BY ss.show_time, ss.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionListItem, 0)
	for rows.Next() {
		var it SessionListItem
		if err := rows.Scan(&it.ID, &it.ShowTime, &it.ShowID, &it.ShowTitle,
			&it.DomeID, &it.DomeName, &it.TicketsAvailable); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetDetail returns the full nested show and dome for one session, or
// ErrSessionNotFound.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
	const q = `SELECT ss.id, ss.show_time,
	                  sh.id, sh.title, sh.description,
	                  d.id, d.name, d.seat_rows, d.seat_in_row
	           FROM show_sessions ss
	           JOIN astronomy_shows sh ON sh.id = ss.astronomy_show_id
	           JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	           WHERE ss.id = ?`
	var det SessionDetail
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.ShowTime,
		&det.Show.ID, &det.Show.Title, &desc,
		&det.Dome.ID, &det.Dome.Name, &det.Dome.Rows, &det.Dome.SeatInRow,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		det.Show.Description = &d
	}
	dome := model.PlanetariumDome{Rows: det.Dome.Rows, SeatInRow: det.Dome.SeatInRow}
	det.Dome.TotalSeats = dome.TotalSeats()
	det.Dome.Size = dome.SizeClass()

	det.Show.Themes = []string{}
	const themeQ = `SELECT t.name
	                FROM astronomy_show_themes st
	                JOIN show_themes t ON t.id = st.theme_id
	                WHERE st.show_id = ?
	                ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, themeQ, det.Show.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		det.Show.Themes = append(det.Show.Themes, name)
	}
	return &det, rows.Err()
}

// DomesBySessionIDs loads the dome geometry for each given session in
// one IN query. The result maps session ID to its dome; a session
// absent from the map does not exist.
func (r *SessionRepo) DomesBySessionIDs(ctx context.Context, ids []uint64) (map[uint64]model.PlanetariumDome, error) {
	out := make(map[uint64]model.PlanetariumDome, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT ss.id, d.id, d.name, d.seat_rows, d.seat_in_row
	      FROM show_sessions ss
	      JOIN planetarium_domes d ON d.id = ss.planetarium_dome_id
	      WHERE ss.id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sessionID uint64
		var d model.PlanetariumDome
		if err := rows.Scan(&sessionID, &d.ID, &d.Name, &d.Rows, &d.SeatInRow); err != nil {
			return nil, err
		}
		out[sessionID] = d
	}
	return out, rows.Err()
}

// Create inserts a session after verifying both referenced entities
// exist, so a dangling foreign key surfaces as a 404 rather than a
// constraint error.
func (r *SessionRepo) Create(ctx context.Context, s *model.ShowSession) error {
	var exists uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM astronomy_shows WHERE id = ?`, s.AstronomyShowID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowNotFound
	}
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx, `SELECT id FROM planetarium_domes WHERE id = ?`, s.PlanetariumDomeID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDomeNotFound
	}
	if err != nil {
		return err
	}

	const q = `INSERT INTO show_sessions (astronomy_show_id, planetarium_dome_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.AstronomyShowID, s.PlanetariumDomeID, s.ShowTime.UTC())
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

// Update rewrites the session's show, dome and time.
func (r *SessionRepo) Update(ctx context.Context, s *model.ShowSession) error {
	const q = `UPDATE show_sessions SET astronomy_show_id = ?, planetarium_dome_id = ?, show_time = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.AstronomyShowID, s.PlanetariumDomeID, s.ShowTime.UTC(), s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM show_sessions WHERE id = ?`, s.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Delete removes a session; its tickets cascade at the DB.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM show_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
