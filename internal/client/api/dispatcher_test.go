package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lunamood/lunamood/internal/client/config"
	"github.com/lunamood/lunamood/internal/client/platform"
	"github.com/lunamood/lunamood/internal/client/tokenstore"
	"github.com/lunamood/lunamood/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestDispatcher(t *testing.T, native bool, serverURL string) (*Dispatcher, *tokenstore.Store) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	snap := platform.Snapshot{URLScheme: "https", Host: "lunamood.app"}
	if native {
		snap = platform.Snapshot{BridgePlatform: "ios", BridgePresent: true}
	}
	detector := platform.NewDetector(func() platform.Snapshot { return snap }, nil, cfg.AppScheme, cfg.DevHosts)

	tokens := tokenstore.NewStore(tokenstore.NewMemoryKV(), tokenstore.NewMemoryKV(), testLogger())
	d := NewDispatcher(cfg, detector, tokens, testLogger())
	d.SetNativeBaseURL(serverURL)
	d.SetBrowserOrigin(serverURL)
	return d, tokens
}

func TestFetchJSON_NativeSendsBearerWithoutCookies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotAuth string
	var gotCookies int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCookies = len(r.Cookies())
		http.SetCookie(w, &http.Cookie{Name: "lunamood_session", Value: "x"})
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d, tokens := newTestDispatcher(t, true, srv.URL)
	if err := tokens.Set(ctx, "tok-42"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := d.FetchJSON(ctx, http.MethodGet, "/api/auth/status", nil, &out); err != nil {
		t.Fatalf("FetchJSON error: %v", err)
	}
	if !out.OK {
		t.Fatalf("response not decoded")
	}
	if gotAuth != "Bearer tok-42" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotCookies != 0 {
		t.Fatalf("native request must not send cookies, got %d", gotCookies)
	}

	// A Set-Cookie from the server must not stick to later native requests.
	if err := d.FetchJSON(ctx, http.MethodGet, "/api/auth/status", nil, &out); err != nil {
		t.Fatalf("second FetchJSON error: %v", err)
	}
	if gotCookies != 0 {
		t.Fatalf("native client must not persist cookies, got %d", gotCookies)
	}
}

func TestFetchJSON_BrowserSendsCookiesWithoutBearer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotAuth string
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if c, err := r.Cookie("lunamood_session"); err == nil {
			gotCookie = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "lunamood_session", Value: "sid-1", Path: "/"})
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	d, tokens := newTestDispatcher(t, false, srv.URL)
	// Even with a stored token, browser requests must not attach it.
	if err := tokens.Set(ctx, "tok-42"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := d.FetchJSON(ctx, http.MethodPost, "/api/login", map[string]string{"username": "u"}, nil); err != nil {
		t.Fatalf("FetchJSON error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("browser request must not carry a bearer header, got %q", gotAuth)
	}

	// The jar replays the session cookie on the next call.
	if err := d.FetchJSON(ctx, http.MethodGet, "/api/auth/status", nil, nil); err != nil {
		t.Fatalf("second FetchJSON error: %v", err)
	}
	if gotCookie != "sid-1" {
		t.Fatalf("cookie jar did not replay the session cookie, got %q", gotCookie)
	}
}

func TestFetchJSON_UnauthorizedHasFixedMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"secret internal detail"}`))
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, false, srv.URL)

	err := d.FetchJSON(context.Background(), http.MethodGet, "/api/analytics/summary", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
	if apiErr.Message != authRequiredMessage {
		t.Fatalf("401 message must be fixed, got %q", apiErr.Message)
	}
}

func TestFetchJSON_OtherErrorsCarryBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"username is taken"}`))
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, false, srv.URL)

	err := d.FetchJSON(context.Background(), http.MethodPost, "/api/register", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message == authRequiredMessage {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestFetchResponse_CallerOwnsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw payload"))
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, false, srv.URL)

	resp, err := d.FetchResponse(context.Background(), http.MethodGet, "/export", nil)
	if err != nil {
		t.Fatalf("FetchResponse error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != "raw payload" {
		t.Fatalf("unexpected body %q", raw)
	}
}

func TestFetchJSON_MalformedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, false, srv.URL)

	var out map[string]any
	if err := d.FetchJSON(context.Background(), http.MethodGet, "/api/moods", nil, &out); err == nil {
		t.Fatalf("expected decode error for malformed body")
	}
}
