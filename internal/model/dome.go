package model

// PlanetariumDome describes a projection dome and its fixed seat grid.
// The grid is Rows x SeatInRow; every (row, seat) pair inside it is a
// bookable physical seat for any session scheduled in the dome.
type PlanetariumDome struct {
	ID        uint64 `json:"id"`          // planetarium_domes.id
	Name      string `json:"name"`        // planetarium_domes.name
	Rows      uint32 `json:"rows"`        // planetarium_domes.seat_rows
	SeatInRow uint32 `json:"seat_in_row"` // planetarium_domes.seat_in_row
}

// Size class names and the thresholds that have always defined them.
// The tiers leave 73 and 74 total seats unclassified; that hole is kept
// on purpose so existing clients see the values they have always seen.
const (
	SizeSmall  = "Small"
	SizeMiddle = "Middle"
	SizeBig    = "Big"

	smallMaxSeats  = 72
	middleMinSeats = 75
	middleMaxSeats = 160
	bigMinSeats    = 160
)

// TotalSeats returns the dome capacity, rows times seats per row.
func (d *PlanetariumDome) TotalSeats() uint32 {
	return d.Rows * d.SeatInRow
}

// SizeClass buckets the dome by total capacity. Checks run Small, then
// Big, then Middle, so a 160-seat dome reports Big even though it also
// sits on the Middle upper bound. 73 and 74 match no tier and yield "".
func (d *PlanetariumDome) SizeClass() string {
	total := d.TotalSeats()
	switch {
	case total <= smallMaxSeats:
		return SizeSmall
	case total >= bigMinSeats:
		return SizeBig
	case total >= middleMinSeats && total <= middleMaxSeats:
		return SizeMiddle
	}
	return ""
}
