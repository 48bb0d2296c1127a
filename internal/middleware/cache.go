package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/orbitarium/planetarium-reservation/internal/config"
)

// cachedResponse is the Redis envelope for a cached GET response. Only
// the body and content type are stored; status is always 200 since
// non-200 responses are never cached.
type cachedResponse struct {
	ContentType string `json:"ct"`
	Body        []byte `json:"body"`
}

// bodyRecorder duplicates the response body into a buffer while it is
// written to the client, up to limit bytes.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if r.limit <= 0 || r.buf.Len()+len(b) <= r.limit {
		r.buf.Write(b)
	} else {
		// over limit, mark unusable
		r.buf.Reset()
		r.limit = -1
	}
	return r.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(c.Path() + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// ResponseCache serves successful GET responses from Redis for the
// configured TTL. Cache keys ignore the caller identity, so it must only
// wrap routes whose output is the same for every authenticated user.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(raw, &cr) == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(http.StatusOK, cr.ContentType, cr.Body)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && rec.limit >= 0 {
				cr := cachedResponse{
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        rec.buf.Bytes(),
				}
				if raw, err := json.Marshal(cr); err == nil {
					// background context: the request may be done by now
					_ = rdb.Set(context.Background(), key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}
