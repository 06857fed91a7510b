// Package server initializes and runs the Lunamood API server: storage,
// session sweeping, and the HTTP listener, with graceful shutdown on
// OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lunamood/lunamood/internal/logging"
	"github.com/lunamood/lunamood/internal/server/auth"
	"github.com/lunamood/lunamood/internal/server/config"
	"github.com/lunamood/lunamood/internal/server/httpserver"
	"github.com/lunamood/lunamood/internal/server/repositories/moods"
	"github.com/lunamood/lunamood/internal/server/repositories/users"
	"github.com/lunamood/lunamood/internal/server/services"
	"github.com/lunamood/lunamood/internal/server/sessions"
	"github.com/lunamood/lunamood/internal/server/token"
	"github.com/robfig/cron/v3"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	cron         *cron.Cron
	sessionStore *sessions.Store
	server       *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	var (
		db       *sql.DB
		userRepo users.Repository
		moodRepo moods.Repository
	)
	if cfg.InMemory {
		userRepo = users.NewInMemoryRepository()
		moodRepo = moods.NewInMemoryRepository()
	} else {
		var err error
		db, err = OpenDatabase(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		userRepo = users.NewPostgresRepository(db)
		moodRepo = moods.NewPostgresRepository(db)
	}

	codec := token.NewCodec([]byte(cfg.TokenSecret), cfg.TokenLifetime)
	sessionStore := sessions.NewStore(cfg.SessionTTL, logger)
	cookies := sessions.NewCookieCodec([]byte(cfg.SessionSecret), cfg.SessionTTL)

	resolver := auth.Chain{
		&auth.BearerTokenBackend{Codec: codec, Users: userRepo},
		&auth.CookieSessionBackend{Cookies: cookies, Sessions: sessionStore, Users: userRepo},
	}

	userService := services.NewUserService(userRepo, codec)
	moodService := services.NewMoodService(moodRepo)
	attachmentService := services.NewAttachmentService(cfg)

	srv := httpserver.NewServer(cfg, logger, userService, moodService, attachmentService,
		sessionStore, cookies, resolver)

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		cron:         cron.New(),
		sessionStore: sessionStore,
		server:       srv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.Addr, "inMemory", app.config.InMemory)

	app.initSignalHandler(cancelFunc)

	if err := app.sessionStore.StartSweeper(ctx, app.cron); err != nil {
		app.logger.Error(ctx, "session sweeper init failed", "error", err)
	}
	app.cron.Start()
	defer app.cron.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}
}
