package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orbitarium/planetarium-reservation/internal/model"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

type sessionReq struct {
	AstronomyShowID   uint64    `json:"astronomy_show"`
	PlanetariumDomeID uint64    `json:"planetarium_dome"`
	ShowTime          time.Time `json:"show_time"`
}

// ListSessions handles GET /v1/show_session. Each row carries
// tickets_available computed in the listing query. Supports ?search=
// on the show title.
func (h *CatalogHandler) ListSessions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Sessions.ListWithAvailability(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, it := range items {
		if it.TicketsAvailable < 0 {
			// ticket uniqueness was violated somewhere; worth an alarm
			log.Printf("session %d reports negative availability %d", it.ID, it.TicketsAvailable)
		}
	}
	return c.JSON(http.StatusOK, items)
}

// GetSession handles GET /v1/show_session/:id with show and dome nested.
func (h *CatalogHandler) GetSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Sessions.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// CreateSession handles POST /v1/show_session (admin).
func (h *CatalogHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AstronomyShowID == 0 || req.PlanetariumDomeID == 0 || req.ShowTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "astronomy_show, planetarium_dome and show_time are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.ShowSession{
		AstronomyShowID:   req.AstronomyShowID,
		PlanetariumDomeID: req.PlanetariumDomeID,
		ShowTime:          req.ShowTime,
	}
	if err := h.Sessions.Create(ctx, s); err != nil {
		switch err {
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"astronomy_show": "show does not exist"})
		case repository.ErrDomeNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"planetarium_dome": "dome does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// UpdateSession handles PUT /v1/show_session/:id (admin).
func (h *CatalogHandler) UpdateSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AstronomyShowID == 0 || req.PlanetariumDomeID == 0 || req.ShowTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "astronomy_show, planetarium_dome and show_time are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &model.ShowSession{
		ID:                id,
		AstronomyShowID:   req.AstronomyShowID,
		PlanetariumDomeID: req.PlanetariumDomeID,
		ShowTime:          req.ShowTime,
	}
	if err := h.Sessions.Update(ctx, s); err != nil {
		switch err {
		case repository.ErrSessionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case repository.ErrShowNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"astronomy_show": "show does not exist"})
		case repository.ErrDomeNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"planetarium_dome": "dome does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSession handles DELETE /v1/show_session/:id (admin).
func (h *CatalogHandler) DeleteSession(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Delete(ctx, id); err != nil {
		if err == repository.ErrSessionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
