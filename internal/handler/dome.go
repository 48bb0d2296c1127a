package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/orbitarium/planetarium-reservation/internal/model"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

type domeReq struct {
	Name      string  `json:"name"`
	Rows      *uint32 `json:"rows"`
	SeatInRow *uint32 `json:"seat_in_row"`
}

// domeResp extends the stored dome with its derived capacity and size
// class.
type domeResp struct {
	model.PlanetariumDome
	TotalSeats uint32 `json:"total_seats"`
	Size       string `json:"size,omitempty"`
}

func toDomeResp(d model.PlanetariumDome) domeResp {
	return domeResp{PlanetariumDome: d, TotalSeats: d.TotalSeats(), Size: d.SizeClass()}
}

func validateDomeReq(req *domeReq) (echo.Map, bool) {
	errs := echo.Map{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "this field is required"
	}
	if req.Rows == nil || *req.Rows < 1 {
		errs["rows"] = "must be a positive integer"
	}
	if req.SeatInRow == nil || *req.SeatInRow < 1 {
		errs["seat_in_row"] = "must be a positive integer"
	}
	return errs, len(errs) == 0
}

// ListDomes handles GET /v1/planetarium_dome.
func (h *CatalogHandler) ListDomes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	domes, err := h.Domes.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]domeResp, 0, len(domes))
	for _, d := range domes {
		out = append(out, toDomeResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// GetDome handles GET /v1/planetarium_dome/:id.
func (h *CatalogHandler) GetDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Domes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toDomeResp(*d))
}

// CreateDome handles POST /v1/planetarium_dome (admin). A dome with a
// zero or missing dimension would make every seat invalid, so both
// dimensions must be at least 1.
func (h *CatalogHandler) CreateDome(c echo.Context) error {
	var req domeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs, ok := validateDomeReq(&req); !ok {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := &model.PlanetariumDome{
		Name:      strings.TrimSpace(req.Name),
		Rows:      *req.Rows,
		SeatInRow: *req.SeatInRow,
	}
	if err := h.Domes.Create(ctx, d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toDomeResp(*d))
}

// UpdateDome handles PUT /v1/planetarium_dome/:id (admin).
func (h *CatalogHandler) UpdateDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req domeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs, ok := validateDomeReq(&req); !ok {
		return c.JSON(http.StatusBadRequest, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := &model.PlanetariumDome{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Rows:      *req.Rows,
		SeatInRow: *req.SeatInRow,
	}
	if err := h.Domes.Update(ctx, d); err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toDomeResp(*d))
}

// DeleteDome handles DELETE /v1/planetarium_dome/:id (admin).
func (h *CatalogHandler) DeleteDome(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Domes.Delete(ctx, id); err != nil {
		if err == repository.ErrDomeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
