// Package session reconciles token-based and cookie-based identity into a
// single view of who the user is. Initialization branches permanently on
// the platform classification; every failure degrades to anonymous rather
// than a stuck loading state.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/lunamood/lunamood/internal/client/api"
	"github.com/lunamood/lunamood/internal/client/models"
	"github.com/lunamood/lunamood/internal/client/platform"
	"github.com/lunamood/lunamood/internal/client/tokenstore"
	"github.com/lunamood/lunamood/internal/logging"
)

// State is the identity view exposed to the rest of the client.
type State struct {
	User            *models.User
	IsAuthenticated bool
	Loading         bool
}

// Manager drives the auth state machine:
//
//	uninitialized → loading → {authenticated, anonymous}
//
// with transitions back to loading on explicit Refresh.
type Manager struct {
	api      *api.Dispatcher
	tokens   *tokenstore.Store
	detector *platform.Detector
	log      logging.Logger

	// tokenMaxAge is the client-side expiry policy. It is independent of
	// the server's absolute expiry and stricter by default; an aged token
	// is cleared locally even if the server would still accept it.
	tokenMaxAge  time.Duration
	probeTimeout time.Duration
	now          func() time.Time

	mu      sync.Mutex
	state   State
	updates chan State
}

func NewManager(d *api.Dispatcher, tokens *tokenstore.Store, detector *platform.Detector, tokenMaxAge, probeTimeout time.Duration, log logging.Logger) *Manager {
	return &Manager{
		api:          d,
		tokens:       tokens,
		detector:     detector,
		log:          log,
		tokenMaxAge:  tokenMaxAge,
		probeTimeout: probeTimeout,
		now:          time.Now,
		updates:      make(chan State, 8),
	}
}

// State returns a snapshot of the current identity view.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Updates delivers state transitions. The channel is buffered and drops
// when full; consumers needing the latest state should call State.
func (m *Manager) Updates() <-chan State {
	return m.updates
}

// Initialize resolves the current identity. Native apps run the explicit
// token-probe routine; browsers run a cookie-credentialed status fetch.
// Initialize never returns a stuck loading state: any failure resolves to
// anonymous.
func (m *Manager) Initialize(ctx context.Context) {
	m.setState(State{Loading: true})

	if m.detector.IsNativeApp() {
		m.setState(m.initNative(ctx))
		return
	}
	m.setState(m.initBrowser(ctx))
}

// Refresh re-runs initialization. It is the hook for the application-wide
// auth-changed event (e.g. an OAuth deep-link return).
func (m *Manager) Refresh(ctx context.Context) {
	m.Initialize(ctx)
}

func (m *Manager) initNative(ctx context.Context) State {
	token, _ := m.tokens.Get(ctx)
	if token == "" {
		// No credential: anonymous without any network call.
		return State{}
	}

	issued, _ := m.tokens.IssuedAt(ctx)
	if issued.IsZero() || m.now().Sub(issued) > m.tokenMaxAge {
		m.clearToken(ctx)
		return State{}
	}

	status, err := m.probe(ctx)
	if err != nil || !status.IsAuthenticated || status.User == nil {
		// Fail closed: the credential did not prove an identity.
		m.clearToken(ctx)
		return State{}
	}
	return State{User: status.User, IsAuthenticated: true}
}

func (m *Manager) initBrowser(ctx context.Context) State {
	status, err := m.probe(ctx)
	if err != nil || !status.IsAuthenticated || status.User == nil {
		return State{}
	}
	return State{User: status.User, IsAuthenticated: true}
}

func (m *Manager) probe(ctx context.Context) (*models.AuthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	status := &models.AuthStatus{}
	if err := m.api.FetchJSON(ctx, http.MethodGet, "/api/auth/status", nil, status); err != nil {
		m.log.Warn(ctx, "auth probe failed", "error", err)
		return nil, err
	}
	return status, nil
}

// Logout tears down the local identity. The UI must never look
// authenticated after Logout returns, even when the server call fails.
func (m *Manager) Logout(ctx context.Context) {
	if m.detector.IsNativeApp() {
		m.clearToken(ctx)
	} else {
		if err := m.api.FetchJSON(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
			m.log.Warn(ctx, "server logout failed, clearing local state anyway", "error", err)
		}
	}
	m.setState(State{})
}

func (m *Manager) clearToken(ctx context.Context) {
	if err := m.tokens.Remove(ctx); err != nil {
		m.log.Warn(ctx, "token removal incomplete, residual credentials may remain", "error", err)
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()

	select {
	case m.updates <- s:
	default:
	}
}
