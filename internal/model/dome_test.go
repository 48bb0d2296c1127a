package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomeTotalSeats(t *testing.T) {
	d := PlanetariumDome{Rows: 5, SeatInRow: 10}
	assert.Equal(t, uint32(50), d.TotalSeats())

	empty := PlanetariumDome{}
	assert.Equal(t, uint32(0), empty.TotalSeats())
}

func TestDomeSizeClass(t *testing.T) {
	cases := []struct {
		name      string
		rows      uint32
		seatInRow uint32
		want      string
	}{
		{"upper bound of Small", 8, 9, SizeSmall},      // 72
		{"unclassified gap low", 1, 73, ""},            // 73
		{"unclassified gap high", 2, 37, ""},           // 74
		{"lower bound of Middle", 5, 15, SizeMiddle},   // 75
		{"inside Middle", 10, 12, SizeMiddle},          // 120
		{"just under Big", 1, 159, SizeMiddle},         // 159
		{"boundary overlap goes Big", 10, 16, SizeBig}, // 160
		{"clearly Big", 20, 20, SizeBig},               // 400
		{"tiny dome", 1, 1, SizeSmall},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := PlanetariumDome{Rows: tc.rows, SeatInRow: tc.seatInRow}
			assert.Equal(t, tc.want, d.SizeClass())
		})
	}
}
