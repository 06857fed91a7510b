package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/server/models"
	"github.com/lunamood/lunamood/internal/server/repositories/users"
	"github.com/lunamood/lunamood/internal/server/sessions"
	"github.com/lunamood/lunamood/internal/server/token"
)

func seedUser(t *testing.T, repo users.Repository) *models.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &models.User{
		Username: "luna@example.com",
		Name:     "Luna",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func bearerRequest(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/moods", nil)
	if tok != "" {
		r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+tok)
	}
	return r
}

func TestBearerTokenBackend_Success(t *testing.T) {
	t.Parallel()

	repo := users.NewInMemoryRepository()
	u := seedUser(t, repo)
	codec := token.NewCodec([]byte("secret"), time.Hour)
	backend := &BearerTokenBackend{Codec: codec, Users: repo}

	tok := codec.Issue(u.ID)
	if err := repo.SetActiveToken(context.Background(), u.ID, tok); err != nil {
		t.Fatalf("SetActiveToken: %v", err)
	}

	got, err := backend.Resolve(bearerRequest(tok))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved wrong user: got %d want %d", got.ID, u.ID)
	}
}

func TestBearerTokenBackend_NoHeader(t *testing.T) {
	t.Parallel()

	backend := &BearerTokenBackend{
		Codec: token.NewCodec([]byte("secret"), time.Hour),
		Users: users.NewInMemoryRepository(),
	}
	if _, err := backend.Resolve(bearerRequest("")); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestBearerTokenBackend_MalformedHeader(t *testing.T) {
	t.Parallel()

	backend := &BearerTokenBackend{
		Codec: token.NewCodec([]byte("secret"), time.Hour),
		Users: users.NewInMemoryRepository(),
	}

	r := httptest.NewRequest(http.MethodGet, "/api/moods", nil)
	r.Header.Set(common.AuthorizationHeader, "Basic dXNlcjpwYXNz")
	if _, err := backend.Resolve(r); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential for non-bearer scheme, got %v", err)
	}
}

func TestBearerTokenBackend_GarbageToken(t *testing.T) {
	t.Parallel()

	backend := &BearerTokenBackend{
		Codec: token.NewCodec([]byte("secret"), time.Hour),
		Users: users.NewInMemoryRepository(),
	}
	if _, err := backend.Resolve(bearerRequest("abc:def:ghi")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerTokenBackend_UnknownUser(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec([]byte("secret"), time.Hour)
	backend := &BearerTokenBackend{Codec: codec, Users: users.NewInMemoryRepository()}

	if _, err := backend.Resolve(bearerRequest(codec.Issue(99))); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for vanished user, got %v", err)
	}
}

func TestBearerTokenBackend_SupersededToken(t *testing.T) {
	t.Parallel()

	repo := users.NewInMemoryRepository()
	u := seedUser(t, repo)
	codec := token.NewCodec([]byte("secret"), time.Hour)
	backend := &BearerTokenBackend{Codec: codec, Users: repo}

	old := codec.Issue(u.ID)
	time.Sleep(2 * time.Millisecond)
	fresh := codec.Issue(u.ID)
	if err := repo.SetActiveToken(context.Background(), u.ID, fresh); err != nil {
		t.Fatalf("SetActiveToken: %v", err)
	}

	// The superseded token still verifies cryptographically but is no longer
	// the single active token.
	if _, err := backend.Resolve(bearerRequest(old)); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for superseded token, got %v", err)
	}
	if _, err := backend.Resolve(bearerRequest(fresh)); err != nil {
		t.Fatalf("fresh token should resolve, got %v", err)
	}
}

func newCookieBackend(t *testing.T) (*CookieSessionBackend, users.Repository) {
	t.Helper()
	repo := users.NewInMemoryRepository()
	return &CookieSessionBackend{
		Cookies:  sessions.NewCookieCodec([]byte("cookie-secret"), time.Hour),
		Sessions: sessions.NewStore(time.Hour, testLogger()),
		Users:    repo,
	}, repo
}

func cookieRequest(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/moods", nil)
	r.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: value})
	return r
}

func TestCookieSessionBackend_Success(t *testing.T) {
	t.Parallel()

	backend, repo := newCookieBackend(t)
	u := seedUser(t, repo)

	session := backend.Sessions.Create(u.ID)
	value, err := backend.Cookies.Encode(session.ID)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := backend.Resolve(cookieRequest(value))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved wrong user: got %d want %d", got.ID, u.ID)
	}
}

func TestCookieSessionBackend_NoCookie(t *testing.T) {
	t.Parallel()

	backend, _ := newCookieBackend(t)
	r := httptest.NewRequest(http.MethodGet, "/api/moods", nil)
	if _, err := backend.Resolve(r); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestCookieSessionBackend_BadSignature(t *testing.T) {
	t.Parallel()

	backend, _ := newCookieBackend(t)
	if _, err := backend.Resolve(cookieRequest("not-a-jwt")); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for bad cookie, got %v", err)
	}
}

func TestCookieSessionBackend_UnknownSession(t *testing.T) {
	t.Parallel()

	backend, _ := newCookieBackend(t)
	value, err := backend.Cookies.Encode("no-such-session")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := backend.Resolve(cookieRequest(value)); !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestChain_BearerWinsAndDefers(t *testing.T) {
	t.Parallel()

	repo := users.NewInMemoryRepository()
	u := seedUser(t, repo)
	codec := token.NewCodec([]byte("secret"), time.Hour)
	cookieBackend, _ := newCookieBackend(t)
	cookieBackend.Users = repo

	chain := Chain{
		&BearerTokenBackend{Codec: codec, Users: repo},
		cookieBackend,
	}

	// No credential at all: every backend defers.
	r := httptest.NewRequest(http.MethodGet, "/api/moods", nil)
	if _, err := chain.Resolve(r); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential from empty chain, got %v", err)
	}

	// Cookie only: the bearer backend defers, the cookie backend resolves.
	session := cookieBackend.Sessions.Create(u.ID)
	value, err := cookieBackend.Cookies.Encode(session.ID)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := chain.Resolve(cookieRequest(value))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved wrong user: got %d want %d", got.ID, u.ID)
	}

	// A presented-but-bad bearer token fails the chain outright; it must not
	// fall through to the cookie backend.
	r = cookieRequest(value)
	r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" abc:def:ghi")
	if _, err := chain.Resolve(r); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken to short-circuit the chain, got %v", err)
	}
}
