package handler

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/orbitarium/planetarium-reservation/internal/model"
	"github.com/orbitarium/planetarium-reservation/internal/repository"
	"github.com/orbitarium/planetarium-reservation/internal/storage"
)

type showReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Themes      []string `json:"themes"`
}

// showResp adds the resolved image URL to the stored show.
type showResp struct {
	model.AstronomyShow
	Image string `json:"image,omitempty"`
}

func (h *CatalogHandler) toShowResp(c echo.Context, s model.AstronomyShow) showResp {
	out := showResp{AstronomyShow: s}
	if h.Media != nil && s.ImagePath != nil && *s.ImagePath != "" {
		if u, err := h.Media.URL(c.Request().Context(), *s.ImagePath); err == nil {
			out.Image = u
		}
	}
	return out
}

// ListShows handles GET /v1/astronomy_show. Supports ?search= on title.
func (h *CatalogHandler) ListShows(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	shows, err := h.Shows.List(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]showResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, h.toShowResp(c, s))
	}
	return c.JSON(http.StatusOK, out)
}

// GetShow handles GET /v1/astronomy_show/:id.
func (h *CatalogHandler) GetShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, h.toShowResp(c, *s))
}

// CreateShow handles POST /v1/astronomy_show (admin). The show row and
// its theme links commit in one transaction so a bad theme name leaves
// nothing behind.
func (h *CatalogHandler) CreateShow(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"title": "this field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	themeIDs, err := h.Themes.IDsByNames(ctx, req.Themes)
	if err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"themes": "unknown theme name"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s := &model.AstronomyShow{Title: title, Description: req.Description, Themes: req.Themes}
	if err := h.Shows.CreateTx(ctx, tx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	if err := h.Shows.SetThemesTx(ctx, tx, s.ID, themeIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, h.toShowResp(c, *s))
}

// UpdateShow handles PUT /v1/astronomy_show/:id (admin).
func (h *CatalogHandler) UpdateShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"title": "this field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	themeIDs, err := h.Themes.IDsByNames(ctx, req.Themes)
	if err != nil {
		if err == repository.ErrThemeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"themes": "unknown theme name"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s := &model.AstronomyShow{ID: id, Title: title, Description: req.Description, Themes: req.Themes}
	if err := h.Shows.UpdateTx(ctx, tx, s); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Shows.SetThemesTx(ctx, tx, id, themeIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, h.toShowResp(c, *s))
}

// UploadShowImage handles POST /v1/astronomy_show/:id/upload_image
// (admin, multipart). The file is written under MediaRoot at a path
// derived from the show title plus a random suffix, and that path is
// stored on the show.
func (h *CatalogHandler) UploadShowImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"image": "this field is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	mediaPath := storage.ImagePath(s.Title, file.Filename, hex.EncodeToString(suffix))

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer src.Close()

	fullPath := filepath.Join(h.MediaRoot, filepath.FromSlash(mediaPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}

	if err := h.Shows.SetImagePath(ctx, id, mediaPath); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	s.ImagePath = &mediaPath
	return c.JSON(http.StatusOK, h.toShowResp(c, *s))
}

// DeleteShow handles DELETE /v1/astronomy_show/:id (admin). Sessions
// and their tickets go with it via cascading deletes.
func (h *CatalogHandler) DeleteShow(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Shows.Delete(ctx, id); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
