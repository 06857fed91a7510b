package sessions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunamood/lunamood/internal/common"
)

// cookieClaims wraps the session ID in standard JWT claims so the cookie
// value is signed and carries its own expiry.
type cookieClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// CookieCodec signs and verifies the browser session cookie. The cookie
// value is an HS256 JWT carrying only the opaque session ID; identity stays
// in the server-side store.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieCodec(secret []byte, ttl time.Duration) *CookieCodec {
	return &CookieCodec{secret: secret, ttl: ttl}
}

// Encode signs sessionID into a cookie value.
func (c *CookieCodec) Encode(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
		},
		SessionID: sessionID,
	})
	return token.SignedString(c.secret)
}

// Decode verifies a cookie value and extracts the session ID.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := &cookieClaims{}

	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.SessionID, nil
}

// NewCookie builds the Set-Cookie header value for a signed session cookie.
func (c *CookieCodec) NewCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the Set-Cookie header value that clears the session
// cookie.
func (c *CookieCodec) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
