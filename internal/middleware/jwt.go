package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/messmate/internal/utils"
)

// JWTAuth validates a Bearer access token and stores its subject, role,
// mess id and session id in the echo context (see IdentityFrom).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			sub, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, sub.UserID)
			c.Set(CtxRole, sub.Role)
			c.Set(CtxMessID, sub.MessID)
			c.Set(CtxSessionID, sub.SessionID)
			return next(c)
		}
	}
}
