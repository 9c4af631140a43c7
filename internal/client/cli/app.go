package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/healthdash/internal/client/api"
	"github.com/dmitrijs2005/healthdash/internal/client/config"
	"github.com/dmitrijs2005/healthdash/internal/client/metrics"
	"github.com/dmitrijs2005/healthdash/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/healthdash/internal/client/session"
	"github.com/dmitrijs2005/healthdash/internal/client/storage"
	"github.com/dmitrijs2005/healthdash/internal/client/store"
	"github.com/dmitrijs2005/healthdash/internal/client/workouts"
	"github.com/dmitrijs2005/healthdash/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	log    logging.Logger
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the local database, the auth API client and the store
// according to c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, logging.WithFormat(c.LogFormat))
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	apiClient, err := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("api client init error: %w", err)
	}

	sess := session.NewManager(apiClient, tokens.NewSQLiteStore(db), log)
	st := store.New(sess, metrics.NewTracker(), workouts.NewLedger(), log)

	a := newApp(st, os.Stdin, os.Stdout, log)
	a.config = c
	a.db = db
	return a, nil
}

func newApp(s *store.Store, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		store:  s,
		log:    log.With("component", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run blocks in the REPL until the user exits, input ends or a termination
// signal arrives. A signal also cancels any request in flight.
func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	a.initSignalHandler(ctx, cancelFunc)
	defer a.close(ctx)

	unsubscribe := a.store.Subscribe(func(snap store.Snapshot) {
		a.log.Debug(ctx, "snapshot received", "version", snap.Version, "state", snap.State)
	})
	defer unsubscribe()

	if a.config != nil {
		a.log.Info(ctx, "starting", "api", a.config.APIBaseURL, "db", a.config.DatabaseDSN)
	}

	printlnFn("Health dashboard (type 'help' for commands)")

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		printlnFn("Bye!")
	}
}

func (a *App) close(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error(ctx, "closing database failed", "error", err)
		}
	}
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	if snap.User == nil {
		return "anonymous"
	}
	if snap.User.Name != "" {
		return snap.User.Name
	}
	return snap.User.Email
}
