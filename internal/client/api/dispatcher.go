// Package api builds outgoing API calls for both runtime platforms.
//
// The native app cannot share cookies with the web origin (custom scheme,
// cross-origin), so it carries its own bearer credential out-of-band; the
// browser keeps using cookies because that is what the session middleware
// expects. Callers never need to know which platform they are on; the
// dispatcher resolves the credential strategy and base URL per request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/lunamood/lunamood/internal/client/config"
	"github.com/lunamood/lunamood/internal/client/platform"
	"github.com/lunamood/lunamood/internal/client/tokenstore"
	"github.com/lunamood/lunamood/internal/common"
	"github.com/lunamood/lunamood/internal/logging"
)

// authRequiredMessage is the fixed error text for 401 responses. The body
// is deliberately not parsed for 401s so server internals never leak to an
// untrusted client context.
const authRequiredMessage = "authentication required"

// APIError carries the HTTP status of a failed call plus a message suitable
// for display.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Dispatcher issues API requests with the platform-appropriate base URL and
// credential strategy.
type Dispatcher struct {
	cfg      *config.Config
	detector *platform.Detector
	tokens   *tokenstore.Store
	log      logging.Logger

	// native carries no cookie jar; identity travels in the bearer header.
	native *http.Client
	// browser carries a cookie jar and no bearer header.
	browser *http.Client

	// browserOrigin is the same-origin base for browser-mode requests.
	// Inside a real browser this is the page origin; the CLI supplies the
	// configured host.
	browserOrigin string
}

func NewDispatcher(cfg *config.Config, detector *platform.Detector, tokens *tokenstore.Store, log logging.Logger) *Dispatcher {
	jar, _ := cookiejar.New(nil)
	return &Dispatcher{
		cfg:           cfg,
		detector:      detector,
		tokens:        tokens,
		log:           log,
		native:        &http.Client{},
		browser:       &http.Client{Jar: jar},
		browserOrigin: cfg.BaseURL(),
	}
}

// FetchJSON issues the request and decodes the JSON response body into out
// (skipped when out is nil). Non-2xx statuses yield an *APIError.
func (d *Dispatcher) FetchJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := d.FetchResponse(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s: %w", path, err)
	}
	return nil
}

// FetchResponse issues the request and returns the raw response for callers
// needing status introspection or manual decoding. Non-2xx statuses yield
// an *APIError; the caller owns closing the body on success.
func (d *Dispatcher) FetchResponse(ctx context.Context, method, path string, body any) (*http.Response, error) {
	native := d.detector.IsNativeApp()

	req, err := d.newRequest(ctx, method, path, body, native)
	if err != nil {
		return nil, err
	}

	client := d.browser
	if native {
		client = d.native
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, d.statusError(resp)
	}
	return resp, nil
}

func (d *Dispatcher) newRequest(ctx context.Context, method, path string, body any, native bool) (*http.Request, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.resolveURL(path, native), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if native {
		token, _ := d.tokens.Get(ctx)
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
		}
	}
	return req, nil
}

// resolveURL rewrites the logical path to an absolute URL for native
// requests (production or staging host per config) and keeps browser
// requests same-origin.
func (d *Dispatcher) resolveURL(path string, native bool) string {
	base := d.browserOrigin
	if native {
		base = d.cfg.BaseURL()
	}
	return strings.TrimSuffix(base, "/") + path
}

func (d *Dispatcher) statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return &APIError{Status: resp.StatusCode, Message: authRequiredMessage}
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// SetBrowserOrigin overrides the same-origin base for browser-mode
// requests. Used by tests and by hosts that know the page origin.
func (d *Dispatcher) SetBrowserOrigin(origin string) {
	d.browserOrigin = origin
}

// SetNativeBaseURL overrides the absolute base used for native requests.
// Used by tests.
func (d *Dispatcher) SetNativeBaseURL(base string) {
	d.cfg.ServerBaseURL = base
	d.cfg.UseStaging = false
}
