package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orbitarium/planetarium-reservation/internal/model"
	"github.com/orbitarium/planetarium-reservation/internal/queue"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

// EventPublisher sends domain events after a reservation commits. A nil
// publisher disables events.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// ReservationHandler serves the customer reservation endpoints.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Sessions     *repository.SessionRepo
	Publisher    EventPublisher
}

func NewReservationHandler(r *repository.ReservationRepo, s *repository.SessionRepo, p EventPublisher) *ReservationHandler {
	if r == nil || s == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: r, Sessions: s, Publisher: p}
}

type createReservationReq struct {
	Tickets []repository.TicketRequest `json:"tickets"`
}

// Create handles POST /v1/reservation. All tickets are validated
// against their session's dome before the transaction opens; inside it,
// the UNIQUE (session, row, seat) key is the arbiter for concurrent
// requests, so a lost race surfaces as a per-ticket conflict error
// rather than a double booking.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"tickets": "at least one ticket is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ids := make([]uint64, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		ids = append(ids, t.ShowSessionID)
	}
	domes, err := h.Sessions.DomesBySessionIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	for i, t := range req.Tickets {
		d, ok := domes[t.ShowSessionID]
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{
				fmt.Sprintf("tickets[%d].show_session", i): "show session does not exist",
			})
		}
		tk := model.Ticket{Row: t.Row, Seat: t.Seat, ShowSessionID: t.ShowSessionID}
		if err := tk.ValidateAgainstDome(&d); err != nil {
			var sre *model.SeatRangeError
			if errors.As(err, &sre) {
				return c.JSON(http.StatusBadRequest, echo.Map{
					fmt.Sprintf("tickets[%d].%s", i, sre.Field): sre.Error(),
				})
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"tickets": err.Error()})
		}
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.CreateWithTicketsTx(ctx, tx, userID, req.Tickets, domes)
	if err != nil {
		var conflict *repository.SeatConflictError
		if errors.As(err, &conflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				fmt.Sprintf("tickets[%d]", conflict.TicketIndex): conflict.Error(),
			})
		}
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show session does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if h.Publisher != nil {
		h.publishCreated(res, userID)
	}

	return c.JSON(http.StatusCreated, res)
}

// List handles GET /v1/reservation; only the caller's reservations are
// visible.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/reservation/:id. Another user's reservation is a
// 404, not a 403, so IDs cannot be enumerated.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservation/:id. Cancelling frees the seats
// through the ticket cascade.
func (h *ReservationHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reservations.DeleteByIDForUser(ctx, id, userID); err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// publishCreated fires the reservation.created event on a detached
// context; the reservation is committed, so publish failures only log.
func (h *ReservationHandler) publishCreated(res *model.Reservation, userID uint64) {
	seen := map[uint64]bool{}
	var sessionIDs []uint64
	seatLabels := make([]string, 0, len(res.Tickets))
	for _, t := range res.Tickets {
		if !seen[t.ShowSessionID] {
			seen[t.ShowSessionID] = true
			sessionIDs = append(sessionIDs, t.ShowSessionID)
		}
		seatLabels = append(seatLabels, fmt.Sprintf("session %d: row %d seat %d", t.ShowSessionID, t.Row, t.Seat))
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        userID,
		SessionIDs:    sessionIDs,
		SeatLabels:    seatLabels,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Publisher.PublishReservationCreated(ctx, ev); err != nil {
		log.Printf("publish reservation.created: %v", err)
	}
}
