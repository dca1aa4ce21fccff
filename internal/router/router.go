// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/handler"
	"github.com/iliyamo/messmate/internal/metrics"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
)

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers login, registration and the caller's own profile.
// limit guards the unauthenticated routes; it may be a pass-through.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	me := e.Group("/v1/me",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleStudent),
	)
	me.GET("", a.Me)
	me.PATCH("", a.UpdateMe)
	me.POST("/refresh", a.Refresh)
}
