package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarium/planetarium-reservation/internal/model"
)

const (
	insertReservationSQL = `INSERT INTO reservations (user_id) VALUES (?)`
	selectCreatedAtSQL   = `SELECT created_at FROM reservations WHERE id = ?`
	insertTicketSQL      = `INSERT INTO tickets (row_num, seat_num, show_session_id, reservation_id) VALUES (?, ?, ?, ?)`
)

func testDomes() map[uint64]model.PlanetariumDome {
	return map[uint64]model.PlanetariumDome{
		3: {ID: 9, Name: "Main Dome", Rows: 5, SeatInRow: 10},
	}
}

func TestReservationCreateWithTicketsTx(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("creates reservation and tickets in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
			WithArgs(uint32(1), uint32(2), uint64(3), uint64(42)).
			WillReturnResult(sqlmock.NewResult(100, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
			WithArgs(uint32(1), uint32(3), uint64(3), uint64(42)).
			WillReturnResult(sqlmock.NewResult(101, 1))
		mock.ExpectCommit()

		repo := NewReservationRepo(db)
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		reqs := []TicketRequest{
			{Row: 1, Seat: 2, ShowSessionID: 3},
			{Row: 1, Seat: 3, ShowSessionID: 3},
		}
		res, err := repo.CreateWithTicketsTx(ctx, tx, 7, reqs, testDomes())
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, uint64(42), res.ID)
		assert.Equal(t, createdAt, res.CreatedAt)
		require.Len(t, res.Tickets, 2)
		assert.Equal(t, uint64(100), res.Tickets[0].ID)
		assert.Equal(t, uint32(2), res.Tickets[0].Seat)
		assert.Equal(t, uint64(42), res.Tickets[1].ReservationID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate seat aborts with the offending index", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
			WithArgs(uint32(1), uint32(2), uint64(3), uint64(42)).
			WillReturnResult(sqlmock.NewResult(100, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
			WithArgs(uint32(1), uint32(3), uint64(3), uint64(42)).
			WillReturnResult(sqlmock.NewResult(101, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertTicketSQL)).
			WithArgs(uint32(2), uint32(4), uint64(3), uint64(42)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-2-4' for key 'tickets.uq_session_row_seat'"))
		mock.ExpectRollback()

		repo := NewReservationRepo(db)
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		reqs := []TicketRequest{
			{Row: 1, Seat: 2, ShowSessionID: 3},
			{Row: 1, Seat: 3, ShowSessionID: 3},
			{Row: 2, Seat: 4, ShowSessionID: 3},
		}
		_, err = repo.CreateWithTicketsTx(ctx, tx, 7, reqs, testDomes())
		require.Error(t, err)

		var conflict *SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 2, conflict.TicketIndex)
		assert.Equal(t, uint32(2), conflict.Row)
		assert.Equal(t, uint32(4), conflict.Seat)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("geometry violation stops before the insert", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectRollback()

		repo := NewReservationRepo(db)
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		// Seat 11 does not exist in a 10-seat row; no ticket insert may run.
		reqs := []TicketRequest{{Row: 1, Seat: 11, ShowSessionID: 3}}
		_, err = repo.CreateWithTicketsTx(ctx, tx, 7, reqs, testDomes())
		require.Error(t, err)

		var rangeErr *model.SeatRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "seat", rangeErr.Field)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown session", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(insertReservationSQL)).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(42, 1))
		mock.ExpectQuery(regexp.QuoteMeta(selectCreatedAtSQL)).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
		mock.ExpectRollback()

		repo := NewReservationRepo(db)
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		reqs := []TicketRequest{{Row: 1, Seat: 1, ShowSessionID: 999}}
		_, err = repo.CreateWithTicketsTx(ctx, tx, 7, reqs, testDomes())
		assert.ErrorIs(t, err, ErrSessionNotFound)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationScoping(t *testing.T) {
	ctx := context.Background()

	t.Run("list filters by owner", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, created_at FROM reservations WHERE user_id = ?`)).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

		repo := NewReservationRepo(db)
		out, err := repo.ListByUser(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retrieve of another user's reservation is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, created_at FROM reservations WHERE id = ? AND user_id = ?`)).
			WithArgs(uint64(42), uint64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

		repo := NewReservationRepo(db)
		_, err = repo.GetByIDForUser(ctx, 42, 8)
		assert.ErrorIs(t, err, ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete of another user's reservation is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE id = ? AND user_id = ?`)).
			WithArgs(uint64(42), uint64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewReservationRepo(db)
		err = repo.DeleteByIDForUser(ctx, 42, 8)
		assert.ErrorIs(t, err, ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
