package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarium/planetarium-reservation/internal/queue"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

type stubPublisher struct {
	events []queue.ReservationCreatedEvent
}

func (s *stubPublisher) PublishReservationCreated(_ context.Context, ev queue.ReservationCreatedEvent) error {
	s.events = append(s.events, ev)
	return nil
}

func newReservationTest(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock, *stubPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &stubPublisher{}
	h := NewReservationHandler(repository.NewReservationRepo(db), repository.NewSessionRepo(db), pub)
	return h, mock, pub
}

func postReservation(h *ReservationHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservation", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7)) // JWT numeric claims decode as float64
	_ = h.Create(c)
	return rec
}

func domeRows(sessionID, domeID uint64, name string, rows, seatInRow uint32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "id", "name", "seat_rows", "seat_in_row"}).
		AddRow(sessionID, domeID, name, rows, seatInRow)
}

func TestCreateReservationEmptyTickets(t *testing.T) {
	h, mock, _ := newReservationTest(t)

	rec := postReservation(h, `{"tickets": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one ticket")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnknownSession(t *testing.T) {
	h, mock, _ := newReservationTest(t)

	mock.ExpectQuery(`SELECT ss\.id, d\.id, d\.name, d\.seat_rows, d\.seat_in_row`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "id", "name", "seat_rows", "seat_in_row"}))

	rec := postReservation(h, `{"tickets": [{"row": 1, "seat": 1, "show_session": 99}]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tickets[0].show_session"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSeatOutOfRange(t *testing.T) {
	h, mock, _ := newReservationTest(t)

	mock.ExpectQuery(`SELECT ss\.id, d\.id`).
		WithArgs(3).
		WillReturnRows(domeRows(3, 1, "Main dome", 20, 10))

	// seat 12 exceeds seat_in_row 10; the transaction never opens
	rec := postReservation(h, `{"tickets": [{"row": 2, "seat": 12, "show_session": 3}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tickets[0].seat"`)
	assert.Contains(t, rec.Body.String(), "seat must be in range [1, 10], not 12")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSeatConflict(t *testing.T) {
	h, mock, _ := newReservationTest(t)

	mock.ExpectQuery(`SELECT ss\.id, d\.id`).
		WithArgs(3).
		WillReturnRows(domeRows(3, 1, "Main dome", 20, 10))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT created_at FROM reservations`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(uint32(2), uint32(5), uint64(3), uint64(42)).
		WillReturnError(&mysqlLikeError{msg: "Error 1062 (23000): Duplicate entry '3-2-5' for key 'tickets.uq_session_row_seat'"})
	mock.ExpectRollback()

	rec := postReservation(h, `{"tickets": [{"row": 2, "seat": 5, "show_session": 3}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tickets[0]"`)
	assert.Contains(t, rec.Body.String(), "already booked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSuccess(t *testing.T) {
	h, mock, pub := newReservationTest(t)

	// one ID per ticket goes into the lookup, duplicates included
	mock.ExpectQuery(`SELECT ss\.id, d\.id`).
		WithArgs(3, 3).
		WillReturnRows(domeRows(3, 1, "Main dome", 20, 10))

	created := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT created_at FROM reservations`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(uint32(2), uint32(5), uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(`INSERT INTO tickets`).
		WithArgs(uint32(2), uint32(6), uint64(3), uint64(42)).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	rec := postReservation(h, `{"tickets": [
		{"row": 2, "seat": 5, "show_session": 3},
		{"row": 2, "seat": 6, "show_session": 3}
	]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, uint64(42), ev.ReservationID)
	assert.Equal(t, uint64(7), ev.UserID)
	assert.Equal(t, []uint64{3}, ev.SessionIDs)
	assert.Len(t, ev.SeatLabels, 2)
}

func TestGetReservationOtherUser(t *testing.T) {
	h, mock, _ := newReservationTest(t)

	mock.ExpectQuery(`SELECT id, user_id, created_at FROM reservations`).
		WithArgs(uint64(5), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservation/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservation/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", float64(7))
	_ = h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// mysqlLikeError mimics the driver's duplicate-key error text.
type mysqlLikeError struct{ msg string }

func (e *mysqlLikeError) Error() string { return e.msg }
