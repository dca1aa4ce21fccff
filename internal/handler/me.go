package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/utils"
)

type updateMeReq struct {
	Name *string `json:"name"`
}

// Me returns the stored session snapshot, which can lag behind directory
// edits until the session is refreshed.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u := h.Identity.CurrentSession(ctx, middleware.IdentityFrom(c).SessionID)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, u)
}

// Refresh re-reads the caller from the directory and re-issues the token,
// since the mess id it carries may have changed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	id := middleware.IdentityFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	u := h.Identity.RefreshSession(ctx, id.SessionID)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	resp, err := h.issue(c, *u, id.SessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateMe edits the caller's own profile. Only the name can change here;
// enrollment is managed by mess owners.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if err := utils.ValidateName(*req.Name); err != nil {
		return writeError(c, err, "")
	}

	id := middleware.IdentityFrom(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Identity.UpdateUser(ctx, id.SessionID, id.UserID, model.UserUpdate{Name: req.Name})
	if err != nil {
		return writeError(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}
