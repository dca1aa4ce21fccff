package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request with its status and latency.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			}
			attrs := []any{
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"latency", time.Since(start),
				"ip", c.RealIP(),
			}
			if uid := IdentityFrom(c).UserID; uid != "" {
				attrs = append(attrs, "user_id", uid)
			}
			slog.Log(c.Request().Context(), level, "http request", attrs...)
			return nil
		}
	}
}
