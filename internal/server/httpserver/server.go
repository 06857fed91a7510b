// Package httpserver exposes the REST API. Route gating follows the dual
// auth model: native clients present a bearer token, browsers a session
// cookie, and the handlers see one resolved identity either way.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lunamood/lunamood/internal/logging"
	"github.com/lunamood/lunamood/internal/server/auth"
	"github.com/lunamood/lunamood/internal/server/config"
	"github.com/lunamood/lunamood/internal/server/services"
	"github.com/lunamood/lunamood/internal/server/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg *config.Config
	log logging.Logger

	users       *services.UserService
	moods       *services.MoodService
	attachments *services.AttachmentService

	sessionStore *sessions.Store
	cookies      *sessions.CookieCodec

	authmw *auth.Middleware

	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	log logging.Logger,
	userService *services.UserService,
	moodService *services.MoodService,
	attachmentService *services.AttachmentService,
	sessionStore *sessions.Store,
	cookies *sessions.CookieCodec,
	resolver auth.IdentityResolver,
) *Server {
	s := &Server{
		cfg:          cfg,
		log:          log,
		users:        userService,
		moods:        moodService,
		attachments:  attachmentService,
		sessionStore: sessionStore,
		cookies:      cookies,
		authmw:       auth.NewMiddleware(resolver, log),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metricsMiddleware)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/moon-phase", s.handleMoonPhase)

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/ios-login", s.handleIOSLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Get("/api/auth/status", s.handleAuthStatus)

	r.Group(func(r chi.Router) {
		r.Use(s.authmw.Optional)
		r.Post("/api/moods", s.handleCreateMood)
		r.Get("/api/moods", s.handleListMoods)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authmw.Require)
		r.Get("/api/analytics/summary", s.handleAnalyticsSummary)
		r.Post("/api/journal/attachments", s.handleCreateAttachment)
		r.Get("/api/journal/attachments/url", s.handleAttachmentURL)
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "http server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}
