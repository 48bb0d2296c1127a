package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations and their
// tickets. The multi-row create runs inside a transaction owned by the
// caller; the (show_session, row, seat) unique key is the safety
// boundary against double-booking, application-level checks are
// advisory only.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open the transaction
// that scopes the whole reservation create.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// TicketRequest is one requested seat in a reservation create.
type TicketRequest struct {
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
	ShowSessionID uint64 `json:"show_session"`
}

// CreateWithTicketsTx creates a reservation for userID and all its
// tickets inside the given transaction, in request order. Every ticket
// is re-validated against its session's dome geometry before insert
// (defense in depth; the request boundary validates too). A duplicate
// key on the tickets unique index comes back as *SeatConflictError
// carrying the offending ticket's index. On any error the caller must
// roll back, leaving no trace of the reservation.
func (r *ReservationRepo) CreateWithTicketsTx(ctx context.Context, tx *sql.Tx, userID uint64, reqs []TicketRequest, domes map[uint64]model.PlanetariumDome) (*model.Reservation, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{ID: uint64(id), UserID: userID}
	// Read back created_at so the response carries the DB's timestamp.
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM reservations WHERE id = ?`, reservation.ID).
		Scan(&reservation.CreatedAt); err != nil {
		return nil, err
	}

	reservation.Tickets = make([]model.Ticket, 0, len(reqs))
	for i, req := range reqs {
		dome, ok := domes[req.ShowSessionID]
		if !ok {
			return nil, ErrSessionNotFound
		}
		ticket := model.Ticket{
			Row:           req.Row,
			Seat:          req.Seat,
			ShowSessionID: req.ShowSessionID,
			ReservationID: reservation.ID,
		}
		if err := ticket.ValidateAgainstDome(&dome); err != nil {
			return nil, err
		}
		ins, err := tx.ExecContext(ctx,
			`INSERT INTO tickets (row_num, seat_num, show_session_id, reservation_id) VALUES (?, ?, ?, ?)`,
			ticket.Row, ticket.Seat, ticket.ShowSessionID, ticket.ReservationID)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, &SeatConflictError{TicketIndex: i, Row: req.Row, Seat: req.Seat}
			}
			return nil, err
		}
		tid, err := ins.LastInsertId()
		if err != nil {
			return nil, err
		}
		ticket.ID = uint64(tid)
		reservation.Tickets = append(reservation.Tickets, ticket)
	}
	return reservation, nil
}

// ListByUser returns the user's reservations, newest first, with their
// tickets attached. Tickets for the whole listing are loaded in one IN
// query and ordered by row then seat.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Tickets = []model.Ticket{}
		index[res.ID] = len(out)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]any, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, res := range out {
		ids = append(ids, res.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT id, row_num, seat_num, show_session_id, reservation_id
	            FROM tickets
	            WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY reservation_id, row_num, seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Ticket
		if err := trows.Scan(&t.ID, &t.Row, &t.Seat, &t.ShowSessionID, &t.ReservationID); err != nil {
			return nil, err
		}
		if i, ok := index[t.ReservationID]; ok {
			out[i].Tickets = append(out[i].Tickets, t)
		}
	}
	return out, trows.Err()
}

// GetByIDForUser returns one reservation scoped to its owner. A
// reservation that exists but belongs to another user is reported as
// ErrReservationNotFound, not a forbidden error, so the listing and the
// retrieve agree on what the caller can see.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, created_at FROM reservations WHERE id = ? AND user_id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, reservationID, userID).Scan(&res.ID, &res.UserID, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	res.Tickets = []model.Ticket{}
	const ticketQ = `SELECT id, row_num, seat_num, show_session_id, reservation_id
	                 FROM tickets WHERE reservation_id = ?
	                 ORDER BY row_num, seat_num`
	rows, err := r.db.QueryContext(ctx, ticketQ, res.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.ShowSessionID, &t.ReservationID); err != nil {
			return nil, err
		}
		res.Tickets = append(res.Tickets, t)
	}
	return &res, rows.Err()
}

// DeleteByIDForUser removes the user's reservation; tickets cascade at
// the DB. ErrReservationNotFound when nothing matched.
func (r *ReservationRepo) DeleteByIDForUser(ctx context.Context, reservationID, userID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ? AND user_id = ?`, reservationID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
