package auth

import (
	"context"
	"net/http"

	"github.com/lunamood/lunamood/internal/logging"
	"github.com/lunamood/lunamood/internal/server/models"
)

// ctxKey is a private context key type to avoid collisions.
type ctxKey string

const userContextKey ctxKey = "user"

// Middleware builds chi-compatible auth middleware over an identity
// resolver.
type Middleware struct {
	resolver IdentityResolver
	log      logging.Logger
}

func NewMiddleware(resolver IdentityResolver, log logging.Logger) *Middleware {
	return &Middleware{resolver: resolver, log: log}
}

// Require rejects requests that do not resolve to an identity. Every
// rejection is a 401 with a generic body: the client learns nothing about
// whether the signature was bad, the token expired, or the user vanished.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolver.Resolve(r)
		if err != nil {
			m.log.Debug(r.Context(), "auth rejected", "path", r.URL.Path, "error", err)
			Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional attaches an identity when one resolves and silently continues
// without one otherwise. Used by endpoints that behave differently for
// guests without hard-failing.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.resolver.Resolve(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// Resolve exposes the underlying resolver for handlers that report
// anonymous callers instead of rejecting them (e.g. /api/auth/status).
func (m *Middleware) Resolve(r *http.Request) (*models.User, error) {
	return m.resolver.Resolve(r)
}

// WithUser returns ctx with the resolved user attached.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the identity attached by Require/Optional.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// Unauthorized writes the uniform 401 response.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}
