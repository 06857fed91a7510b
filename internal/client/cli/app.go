package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/lunamood/lunamood/internal/client"
	"github.com/lunamood/lunamood/internal/client/api"
	"github.com/lunamood/lunamood/internal/client/config"
	"github.com/lunamood/lunamood/internal/client/platform"
	"github.com/lunamood/lunamood/internal/client/session"
	"github.com/lunamood/lunamood/internal/client/tokenstore"
	"github.com/lunamood/lunamood/internal/logging"
)

// App is the interactive Lunamood client. It drives the same auth state
// machine and request dispatcher the embedded web client uses, so the two
// platform paths (bearer token vs session cookie) are exercised end to end
// from a terminal.
type App struct {
	config   *config.Config
	logger   logging.Logger
	detector *platform.Detector
	tokens   *tokenstore.Store
	api      *api.Dispatcher
	manager  *session.Manager
	guests   *session.GuestStore
	db       *sql.DB
	reader   *bufio.Reader
}

// hostSnapshot builds the environment snapshot for a terminal host. The
// LUNAMOOD_PLATFORM variable stands in for the native bridge tag, so the
// token-credential path can be driven from a development shell.
func hostSnapshot() platform.Snapshot {
	tag := os.Getenv("LUNAMOOD_PLATFORM")
	return platform.Snapshot{
		BridgePlatform: tag,
		BridgePresent:  tag != "",
		URLScheme:      "https",
		UserAgent:      "lunamood-cli",
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := client.OpenDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	kv := tokenstore.NewSQLiteKV(db)
	tokens := tokenstore.NewStore(kv, tokenstore.NewMemoryKV(), logger)
	detector := platform.NewDetector(hostSnapshot, nil, cfg.AppScheme, cfg.DevHosts)
	dispatcher := api.NewDispatcher(cfg, detector, tokens, logger)
	manager := session.NewManager(dispatcher, tokens, detector, cfg.TokenMaxAge, cfg.ProbeTimeout, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		detector: detector,
		tokens:   tokens,
		api:      dispatcher,
		manager:  manager,
		guests:   session.NewGuestStore(kv),
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.manager.State().IsAuthenticated
}

func (a *App) showLogin() string {
	state := a.manager.State()
	if state.IsAuthenticated && state.User != nil {
		return state.User.Username
	}
	return "anonymous"
}

// Run resolves the startup identity, then hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "local db close failed", "error", err)
		}
	}()

	a.manager.Initialize(ctx)
	runREPL(ctx, a, a.showLogin, bufio.NewScanner(os.Stdin))
}
