package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// clientID returns the identity used for rate-limit keys: the user ID
// when JWTAuth has already run, otherwise the client IP. Applied
// server-wide the limiter sits before JWTAuth, so keys are per-IP
// there. JWT numeric claims decode as float64, so the value is
// formatted rather than type-asserted.
func clientID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		return "u:" + fmt.Sprint(v)
	}
	return "ip:" + c.RealIP()
}
