package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionListColumns() []string {
	return []string{"id", "show_time", "show_id", "title", "dome_id", "dome_name", "tickets_available"}
}

func TestSessionListWithAvailability(t *testing.T) {
	ctx := context.Background()
	showTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	t.Run("availability arithmetic", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// 50-seat dome: 3 tickets leave 47, none leave 50.
		rows := sqlmock.NewRows(sessionListColumns()).
			AddRow(1, showTime, 10, "Moonlight", 5, "Dome B", 47).
			AddRow(2, showTime, 10, "Moonlight", 5, "Dome B", 50)
		mock.ExpectQuery(`SELECT ss\.id, ss\.show_time`).WillReturnRows(rows)

		repo := NewSessionRepo(db)
		out, err := repo.ListWithAvailability(ctx, "")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, int64(47), out[0].TicketsAvailable)
		assert.Equal(t, int64(50), out[1].TicketsAvailable)
		assert.Equal(t, "Moonlight", out[0].ShowTitle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative availability is passed through", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(sessionListColumns()).
			AddRow(3, showTime, 10, "Moonlight", 5, "Dome B", -2)
		mock.ExpectQuery(`SELECT ss\.id, ss\.show_time`).WillReturnRows(rows)

		repo := NewSessionRepo(db)
		out, err := repo.ListWithAvailability(ctx, "")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int64(-2), out[0].TicketsAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search filters on show title", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(sessionListColumns()).
			AddRow(4, showTime, 11, "Solar Storm", 5, "Dome C", 50)
		mock.ExpectQuery(`LOWER\(sh\.title\) LIKE`).
			WithArgs("%solar%").
			WillReturnRows(rows)

		repo := NewSessionRepo(db)
		out, err := repo.ListWithAvailability(ctx, "Solar")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Solar Storm", out[0].ShowTitle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionDomesBySessionIDs(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "dome_id", "name", "seat_rows", "seat_in_row"}).
		AddRow(3, 9, "Main Dome", 5, 10)
	mock.ExpectQuery(`FROM show_sessions ss`).
		WithArgs(uint64(3), uint64(3)).
		WillReturnRows(rows)

	repo := NewSessionRepo(db)
	domes, err := repo.DomesBySessionIDs(ctx, []uint64{3, 3})
	require.NoError(t, err)
	require.Contains(t, domes, uint64(3))
	assert.Equal(t, uint32(5), domes[3].Rows)
	assert.Equal(t, uint32(10), domes[3].SeatInRow)
}
