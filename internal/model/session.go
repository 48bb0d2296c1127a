package model

import "time"

// ShowSession schedules an astronomy show in a planetarium dome at a
// specific time. Its seat universe is exactly the dome's grid.
type ShowSession struct {
	ID                uint64    `json:"id"`               // show_sessions.id
	AstronomyShowID   uint64    `json:"astronomy_show"`   // show_sessions.astronomy_show_id
	PlanetariumDomeID uint64    `json:"planetarium_dome"` // show_sessions.planetarium_dome_id
	ShowTime          time.Time `json:"show_time"`        // show_sessions.show_time
}
