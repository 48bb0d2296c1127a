package model

import "fmt"

// Ticket is a claim on one physical seat for one show session. Tickets
// are only ever created as part of a reservation; the storage layer
// enforces that (show_session, row, seat) is unique across all tickets.
type Ticket struct {
	ID            uint64 `json:"id"`           // tickets.id
	Row           uint32 `json:"row"`          // tickets.row_num (1-indexed)
	Seat          uint32 `json:"seat"`         // tickets.seat_num (1-indexed)
	ShowSessionID uint64 `json:"show_session"` // tickets.show_session_id
	ReservationID uint64 `json:"-"`            // tickets.reservation_id
}

// SeatRangeError reports a row or seat value outside the dome grid.
type SeatRangeError struct {
	Field string // "row" or "seat"
	Value uint32
	Upper uint32
}

func (e *SeatRangeError) Error() string {
	return fmt.Sprintf("%s must be in range [1, %d], not %d", e.Field, e.Upper, e.Value)
}

// ValidateSeat checks 1 <= value <= upper and returns a SeatRangeError
// naming the offending field otherwise.
func ValidateSeat(field string, value, upper uint32) error {
	if value < 1 || value > upper {
		return &SeatRangeError{Field: field, Value: value, Upper: upper}
	}
	return nil
}

// ValidateAgainstDome checks the ticket's seat against the dome's seats
// per row, then its row against the dome's row count.
func (t *Ticket) ValidateAgainstDome(d *PlanetariumDome) error {
	if err := ValidateSeat("seat", t.Seat, d.SeatInRow); err != nil {
		return err
	}
	return ValidateSeat("row", t.Row, d.Rows)
}
