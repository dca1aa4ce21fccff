package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/service"
)

// StudentHandler serves the student's own view.
type StudentHandler struct {
	Views *service.DashboardService
}

func NewStudentHandler(dashboard *service.DashboardService) *StudentHandler {
	return &StudentHandler{Views: dashboard}
}

// Dashboard refreshes the session and returns the mess, today's status and
// this month's bill line.
func (h *StudentHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Views.Student(ctx, middleware.IdentityFrom(c).SessionID)
	if err != nil {
		return writeError(c, err, "no active session")
	}
	return c.JSON(http.StatusOK, d)
}
