// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published after a reservation commits. It
// carries enough detail for downstream consumers (notifications,
// analytics) without a round trip to the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	SessionIDs    []uint64 `json:"session_ids"`
	SeatLabels    []string `json:"seats"` // "session 3: row 2 seat 5"
	CreatedAt     string   `json:"created_at"`
}
