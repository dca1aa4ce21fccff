package utils // package utils provides validation helpers and token issuing

import (
	"crypto/rand"  // secure random session ids
	"encoding/hex" // hex encoding of random bytes
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenSubject is what an access token asserts about its bearer.  SessionID
// names the session snapshot kept in the key-value store; MessID is the
// mess the bearer owns or belongs to at issue time and may be empty.
type TokenSubject struct {
	UserID    string
	Role      string
	MessID    string
	SessionID string
}

// NewAccessToken builds and signs an HS256 JWT.  The claims carry sub
// (user id), role, mess_id, sid, exp and iat.
func NewAccessToken(secret string, s TokenSubject, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":     s.UserID,
		"role":    s.Role,
		"mess_id": s.MessID,
		"sid":     s.SessionID,
		"exp":     exp.Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an HS256 token and returns its subject.
func ParseAccessToken(secret, raw string) (TokenSubject, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenSubject{}, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenSubject{}, errors.New("invalid claims")
	}
	str := func(k string) string { s, _ := claims[k].(string); return s }
	sub := TokenSubject{UserID: str("sub"), Role: str("role"), MessID: str("mess_id"), SessionID: str("sid")}
	if sub.UserID == "" {
		return TokenSubject{}, errors.New("token has no subject")
	}
	return sub, nil
}

// NewSessionID returns a random 32-character hex session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
