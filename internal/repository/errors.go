// Package repository holds the data access layer. This file defines the
// sentinel errors and error types shared across repositories so handlers
// can map failures to HTTP statuses without inspecting SQL errors.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Not-found sentinels, one per entity. Handlers translate these into
// 404. Reservations owned by another user also surface as not-found so
// IDs cannot be enumerated.
var (
	ErrShowNotFound        = errors.New("astronomy show not found")
	ErrThemeNotFound       = errors.New("show theme not found")
	ErrDomeNotFound        = errors.New("planetarium dome not found")
	ErrSessionNotFound     = errors.New("show session not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// ErrThemeNameExists signals a violation of the unique theme name index.
// Handlers translate it into 409.
var ErrThemeNameExists = errors.New("theme name already exists")

// SeatConflictError reports that a requested seat is already booked for
// its session. It is produced when an insert into tickets trips the
// (show_session, row, seat) unique key, which is the only mechanism
// trusted to prevent double-booking under concurrent requests.
type SeatConflictError struct {
	TicketIndex int // position of the offending ticket in the request
	Row         uint32
	Seat        uint32
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat (row %d, seat %d) is already booked for this session", e.Row, e.Seat)
}

// isDuplicateKey reports whether err is a MySQL duplicate entry error
// (code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
