package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/config"
	"github.com/iliyamo/messmate/internal/middleware"
	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/service"
	"github.com/iliyamo/messmate/internal/utils"
)

// AuthHandler serves phone login, registration and logout.
type AuthHandler struct {
	Cfg      config.Config
	Identity *service.IdentityService
	Messes   *service.MessService
}

func NewAuthHandler(cfg config.Config, identity *service.IdentityService, messes *service.MessService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Identity: identity, Messes: messes}
}

// ----- DTOs -----

type loginReq struct {
	Phone string `json:"phone"`
}

type registerReq struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // OWNER | STUDENT
	MessName string `json:"mess_name"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// issue signs a token for u bound to session sid. The token's mess id is
// the owner's mess or the student's enrollment.
func (h *AuthHandler) issue(c echo.Context, u model.User, sid string) (authResp, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	messID := u.MessID
	if u.Role == model.RoleOwner {
		if m := h.Messes.ByOwner(ctx, u.ID); m != nil {
			messID = m.ID
		}
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, utils.TokenSubject{
		UserID:    u.ID,
		Role:      string(u.Role),
		MessID:    messID,
		SessionID: sid,
	}, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	return authResp{User: u, Access: tokenPart{Token: access.Token, Expires: access.Exp}}, nil
}

// Login: look the phone up and open a new session. 404 when no user has it.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := utils.NormalizePhone(req.Phone)
	if err := utils.ValidatePhone(phone); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sid, err := utils.NewSessionID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session id failed"})
	}
	u, err := h.Identity.Login(ctx, sid, phone)
	if err != nil {
		return writeError(c, err, "user not found")
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	resp, err := h.issue(c, *u, sid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Register: create the user (and an owner's mess) and log them in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = model.RoleStudent
	}
	if err := utils.ValidateName(req.Name); err != nil {
		return writeError(c, err, "")
	}
	if role == model.RoleOwner {
		if err := utils.ValidateMessName(req.MessName); err != nil {
			return writeError(c, err, "")
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sid, err := utils.NewSessionID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session id failed"})
	}
	u, err := h.Identity.Register(ctx, sid, service.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
		MessName: req.MessName,
	})
	if err != nil {
		return writeError(c, err, "")
	}

	resp, err := h.issue(c, *u, sid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// Logout drops the caller's session snapshot. The token itself stays valid
// until it expires but no longer resolves to a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Identity.Logout(ctx, middleware.IdentityFrom(c).SessionID); err != nil {
		return writeError(c, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
