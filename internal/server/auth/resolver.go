// Package auth gates API routes. Identity can arrive two ways, a bearer
// token from the native app or a session cookie from the browser, and both
// are unified behind the IdentityResolver interface so handlers never
// branch on platform.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/server/models"
	"github.com/lunamood/lunamood/internal/server/repositories/users"
	"github.com/lunamood/lunamood/internal/server/sessions"
	"github.com/lunamood/lunamood/internal/server/token"
)

// ErrNoCredential reports that the request carried no credential of the
// backend's kind at all, as opposed to carrying one that failed to verify.
var ErrNoCredential = errors.New("no credential presented")

// IdentityResolver resolves the user a request is acting as.
// Implementations return ErrNoCredential when their credential kind is
// absent and common.ErrorUnauthorized (or a token error) when a presented
// credential does not prove an identity.
type IdentityResolver interface {
	Resolve(r *http.Request) (*models.User, error)
}

// BearerTokenBackend resolves identity from the Authorization header used
// by the native app.
type BearerTokenBackend struct {
	Codec *token.Codec
	Users users.Repository
}

func (b *BearerTokenBackend) Resolve(r *http.Request) (*models.User, error) {
	tok, ok := bearerToken(r)
	if !ok {
		return nil, ErrNoCredential
	}

	claims, err := b.Codec.Verify(tok)
	if err != nil {
		return nil, err
	}

	user, err := b.Users.GetByID(r.Context(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	// Single-active-token invalidation: when the user row records a token,
	// only that exact token is accepted; re-login replaces it.
	if user.IOSAuthToken != "" && user.IOSAuthToken != tok {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// CookieSessionBackend resolves identity from the browser session cookie.
type CookieSessionBackend struct {
	Cookies  *sessions.CookieCodec
	Sessions *sessions.Store
	Users    users.Repository
}

func (b *CookieSessionBackend) Resolve(r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return nil, ErrNoCredential
	}

	sessionID, err := b.Cookies.Decode(cookie.Value)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	session, ok := b.Sessions.Get(sessionID)
	if !ok {
		return nil, common.ErrSessionExpired
	}

	user, err := b.Users.GetByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// Chain tries each resolver in order. The first identity wins; a resolver
// reporting ErrNoCredential defers to the next. If every resolver saw no
// credential, Chain reports ErrNoCredential.
type Chain []IdentityResolver

func (c Chain) Resolve(r *http.Request) (*models.User, error) {
	for _, resolver := range c {
		user, err := resolver.Resolve(r)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, ErrNoCredential) {
			continue
		}
		return nil, err
	}
	return nil, ErrNoCredential
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(common.AuthorizationHeader)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
