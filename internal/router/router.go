// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/orbitarium/planetarium-reservation/internal/config"
	"github.com/orbitarium/planetarium-reservation/internal/handler"
	"github.com/orbitarium/planetarium-reservation/internal/middleware"
	"github.com/orbitarium/planetarium-reservation/internal/model"
)

// RegisterRoutes registers routes that need no authentication. Only the
// health check lives here.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login, refresh
// and logout live under /v1/auth without JWT middleware; /v1/me is
// protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the catalog and reservation endpoints. All of
// them require authentication; catalog writes additionally require the
// ADMIN role. Public GET listings sit behind the shared response cache
// when Redis is available. Rate limiting is applied server-wide in
// main, not here, so the auth endpoints are covered too.
func RegisterAPI(e *echo.Echo, cat *handler.CatalogHandler, res *handler.ReservationHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))

	cached := middleware.ResponseCache(cacheCfg, rdb)

	// browse endpoints, any authenticated role
	api.GET("/astronomy_show", cat.ListShows, cached)
	api.GET("/astronomy_show/:id", cat.GetShow)
	api.GET("/show_theme", cat.ListThemes, cached)
	api.GET("/show_theme/:id", cat.GetTheme)
	api.GET("/planetarium_dome", cat.ListDomes, cached)
	api.GET("/planetarium_dome/:id", cat.GetDome)
	api.GET("/show_session", cat.ListSessions)
	api.GET("/show_session/:id", cat.GetSession)

	// reservations are scoped to the caller inside the handlers
	api.POST("/reservation", res.Create)
	api.GET("/reservation", res.List)
	api.GET("/reservation/:id", res.Get)
	api.DELETE("/reservation/:id", res.Delete)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.POST("/astronomy_show", cat.CreateShow)
	admin.PUT("/astronomy_show/:id", cat.UpdateShow)
	admin.POST("/astronomy_show/:id/upload_image", cat.UploadShowImage)
	admin.DELETE("/astronomy_show/:id", cat.DeleteShow)

	admin.POST("/show_theme", cat.CreateTheme)
	admin.PUT("/show_theme/:id", cat.UpdateTheme)
	admin.DELETE("/show_theme/:id", cat.DeleteTheme)

	admin.POST("/planetarium_dome", cat.CreateDome)
	admin.PUT("/planetarium_dome/:id", cat.UpdateDome)
	admin.DELETE("/planetarium_dome/:id", cat.DeleteDome)

	admin.POST("/show_session", cat.CreateSession)
	admin.PUT("/show_session/:id", cat.UpdateSession)
	admin.DELETE("/show_session/:id", cat.DeleteSession)
}
