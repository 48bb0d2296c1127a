package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarium/planetarium-reservation/internal/repository"
)

func newCatalogTest(t *testing.T) (*CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewCatalogHandler(
		repository.NewShowRepo(db),
		repository.NewThemeRepo(db),
		repository.NewDomeRepo(db),
		repository.NewSessionRepo(db),
		nil,
		t.TempDir(),
	)
	return h, mock
}

func postJSON(h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestCreateDomeRejectsNonPositiveDimensions(t *testing.T) {
	h, mock := newCatalogTest(t)

	tests := []struct {
		name string
		body string
		key  string
	}{
		{"zero rows", `{"name": "Big dome", "rows": 0, "seat_in_row": 10}`, `"rows"`},
		{"missing rows", `{"name": "Big dome", "seat_in_row": 10}`, `"rows"`},
		{"zero seat_in_row", `{"name": "Big dome", "rows": 10, "seat_in_row": 0}`, `"seat_in_row"`},
		{"missing name", `{"rows": 10, "seat_in_row": 10}`, `"name"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(h.CreateDome, "/v1/planetarium_dome", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.key)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDomeDerivedFields(t *testing.T) {
	h, mock := newCatalogTest(t)

	mock.ExpectExec(`INSERT INTO planetarium_domes`).
		WithArgs("Main dome", uint32(12), uint32(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postJSON(h.CreateDome, "/v1/planetarium_dome", `{"name": "Main dome", "rows": 12, "seat_in_row": 10}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_seats":120`)
	assert.Contains(t, rec.Body.String(), `"size":"Middle"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
