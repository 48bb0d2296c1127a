package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/orbitarium/planetarium-reservation/internal/model"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

type themeReq struct {
	Name string `json:"name"`
}

// ListThemes handles GET /v1/show_theme. Supports ?search= on name.
func (h *CatalogHandler) ListThemes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	themes, err := h.Themes.List(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, themes)
}

// GetTheme handles GET /v1/show_theme/:id.
func (h *CatalogHandler) GetTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Themes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// CreateTheme handles POST /v1/show_theme (admin).
func (h *CatalogHandler) CreateTheme(c echo.Context) error {
	var req themeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"name": "this field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := &model.ShowTheme{Name: name}
	if err := h.Themes.Create(ctx, t); err != nil {
		if err == repository.ErrThemeNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"name": "show theme with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateTheme handles PUT /v1/show_theme/:id (admin).
func (h *CatalogHandler) UpdateTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req themeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"name": "this field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := &model.ShowTheme{ID: id, Name: name}
	if err := h.Themes.Update(ctx, t); err != nil {
		switch err {
		case repository.ErrThemeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		case repository.ErrThemeNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"name": "show theme with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTheme handles DELETE /v1/show_theme/:id (admin).
func (h *CatalogHandler) DeleteTheme(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Themes.Delete(ctx, id); err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
