package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeat(t *testing.T) {
	t.Run("inside bounds", func(t *testing.T) {
		assert.NoError(t, ValidateSeat("seat", 1, 10))
		assert.NoError(t, ValidateSeat("seat", 10, 10))
		assert.NoError(t, ValidateSeat("row", 5, 10))
	})

	t.Run("zero is rejected", func(t *testing.T) {
		err := ValidateSeat("row", 0, 5)
		require.Error(t, err)
		assert.Equal(t, "row must be in range [1, 5], not 0", err.Error())
	})

	t.Run("above upper bound", func(t *testing.T) {
		err := ValidateSeat("seat", 12, 10)
		require.Error(t, err)
		var rangeErr *SeatRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "seat", rangeErr.Field)
		assert.Equal(t, uint32(12), rangeErr.Value)
		assert.Equal(t, uint32(10), rangeErr.Upper)
		assert.Equal(t, "seat must be in range [1, 10], not 12", err.Error())
	})
}

func TestTicketValidateAgainstDome(t *testing.T) {
	dome := &PlanetariumDome{Rows: 5, SeatInRow: 10}

	t.Run("valid corner seats", func(t *testing.T) {
		assert.NoError(t, (&Ticket{Row: 1, Seat: 1}).ValidateAgainstDome(dome))
		assert.NoError(t, (&Ticket{Row: 5, Seat: 10}).ValidateAgainstDome(dome))
	})

	t.Run("seat is checked before row", func(t *testing.T) {
		err := (&Ticket{Row: 99, Seat: 99}).ValidateAgainstDome(dome)
		var rangeErr *SeatRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "seat", rangeErr.Field)
	})

	t.Run("row out of range", func(t *testing.T) {
		err := (&Ticket{Row: 6, Seat: 3}).ValidateAgainstDome(dome)
		var rangeErr *SeatRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "row", rangeErr.Field)
		assert.Equal(t, uint32(5), rangeErr.Upper)
	})
}
