package middleware

import "github.com/labstack/echo/v4"

// Context keys populated by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxMessID    = "mess_id"
	CtxSessionID = "sid"
)

// Identity is the authenticated caller as asserted by the access token.
type Identity struct {
	UserID    string
	Role      string
	MessID    string
	SessionID string
}

// IdentityFrom reads the values JWTAuth stored in c. Missing values are
// empty strings.
func IdentityFrom(c echo.Context) Identity {
	return Identity{
		UserID:    ctxString(c, CtxUserID),
		Role:      ctxString(c, CtxRole),
		MessID:    ctxString(c, CtxMessID),
		SessionID: ctxString(c, CtxSessionID),
	}
}

func ctxString(c echo.Context, key string) string {
	s, _ := c.Get(key).(string)
	return s
}
