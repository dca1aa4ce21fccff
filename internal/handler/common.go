package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

var badRequestErrs = []error{
	utils.ErrInvalidPhone,
	utils.ErrInvalidName,
	utils.ErrInvalidMessName,
	utils.ErrInvalidRate,
	utils.ErrInvalidDate,
	utils.ErrInvalidMonth,
	utils.ErrInvalidRole,
}

// writeError maps service and validation errors to a status code and a
// JSON {"error": ...} body. Unknown errors are logged and hidden.
func writeError(c echo.Context, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMsg})
	case errors.Is(err, repository.ErrDuplicateUser):
		return c.JSON(http.StatusConflict, echo.Map{"error": "phone already registered"})
	}
	for _, e := range badRequestErrs {
		if errors.Is(err, e) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
