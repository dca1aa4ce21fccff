package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/handler"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner. cache
// wraps the billing reads.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	g.GET("/mess", o.GetMess)
	g.PATCH("/mess", o.UpdateMess)

	g.GET("/students", o.ListStudents)
	g.POST("/students", o.AddStudent)

	g.GET("/attendance", o.GetAttendance)
	g.PUT("/attendance", o.MarkAttendance)

	g.GET("/dashboard", o.Dashboard)
	g.GET("/billing", o.Billing, cache)
	g.GET("/billing/export", o.ExportBilling, cache)
}
