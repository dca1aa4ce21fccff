package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/kv"
)

// HealthHandler reports liveness and whether the key-value backend answers.
type HealthHandler struct {
	KV      kv.Store
	Backend string
}

func NewHealthHandler(store kv.Store, backend string) *HealthHandler {
	return &HealthHandler{KV: store, Backend: backend}
}

// Health returns 200 with {"status":"ok"} or 503 when the store errors.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.KV.Get(ctx, kv.KeyMesses); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "kv": h.Backend, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "kv": h.Backend})
}
