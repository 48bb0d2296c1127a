package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/orbitarium/planetarium-reservation/internal/config"
)

func serveLimited(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	// server-wide, the way main wires it: every route is covered,
	// including unauthenticated auth endpoints
	e.Use(RateLimit(cfg, rdb))
	e.POST("/v1/auth/login", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitNilRedisPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}

	rec := serveLimited(t, cfg, nil, "/v1/auth/login")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute, Prefix: "rl"}
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"})

	rec := serveLimited(t, cfg, rdb, "/v1/auth/login")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitFailsOpenOnRedisError(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
	// unreachable broker: INCR errors and the request must go through
	rdb := redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  100 * time.Millisecond,
		ReadTimeout:  100 * time.Millisecond,
		WriteTimeout: 100 * time.Millisecond,
		MaxRetries:   -1,
	})

	rec := serveLimited(t, cfg, rdb, "/v1/auth/login")

	assert.Equal(t, http.StatusOK, rec.Code)
}
