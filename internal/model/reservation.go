package model

import "time"

// Reservation is an owned group of tickets created atomically by one
// user. CreatedAt is set once at insert and never updated. Deleting a
// reservation cascades to its tickets.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	UserID    uint64    `json:"-"`          // reservations.user_id
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
	Tickets   []Ticket  `json:"tickets"`    // owned tickets, ordered by row then seat
}
