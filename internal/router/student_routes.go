package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/handler"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
)

// RegisterStudent registers STUDENT-scoped endpoints under /v1/student.
func RegisterStudent(e *echo.Echo, s *handler.StudentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/student",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent),
	)
	g.GET("/dashboard", s.Dashboard)
}
