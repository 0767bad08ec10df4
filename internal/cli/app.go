// Package cli implements the interactive FoxList command line: a
// small REPL over the session coordinator and the task store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/foxlist/internal/config"
	"github.com/dmitrijs2005/foxlist/internal/credentials"
	"github.com/dmitrijs2005/foxlist/internal/filex"
	"github.com/dmitrijs2005/foxlist/internal/kvstore"
	"github.com/dmitrijs2005/foxlist/internal/logging"
	"github.com/dmitrijs2005/foxlist/internal/session"
	"github.com/dmitrijs2005/foxlist/internal/tasks"
)

// App wires the stores and the coordinator and carries the REPL
// state.
type App struct {
	config  *config.Config
	auth    *session.Coordinator
	store   tasks.Store
	log     logging.Logger
	reader  *bufio.Reader
	db      *sql.DB
}

// NewApp builds the application from configuration: resolves the data
// directory, selects the task-store backend, opens the credential
// store and constructs the session coordinator. Initialization
// failures here are fatal to startup.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("preparing data directory: %w", err)
	}

	var (
		store tasks.Store
		db    *sql.DB
	)
	switch c.Backend {
	case config.BackendFile:
		store = tasks.NewFileStore(filepath.Join(dir, c.TasksFile))
	case config.BackendSQLite:
		db, err = sql.Open("sqlite", filepath.Join(dir, c.DatabaseFile))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		store = tasks.NewSQLiteStore(db)
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing task store: %w", err)
	}

	kv, err := kvstore.NewFileStore(filepath.Join(dir, c.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	var hasher credentials.SecretHasher
	if c.HashSecrets {
		hasher = credentials.BcryptHasher{}
	}
	creds := credentials.NewStore(kv, hasher)

	auth := session.NewCoordinator(creds, store, log)

	return &App{
		config: c,
		auth:   auth,
		store:  store,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		db:     db,
	}, nil
}

// Run restores the persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.auth.Load(ctx); err != nil {
		fmt.Println("Could not restore previous session; continuing signed out.")
	}
	if u := a.auth.CurrentUser(); u != nil {
		fmt.Printf("Welcome back, %s!\n", u.Name)
	}

	a.Root(ctx)
}

// Close releases the database handle when the SQLite backend is in
// use.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

// currentEmail returns the signed-in user's email or "".
func (a *App) currentEmail() string {
	u := a.auth.CurrentUser()
	if u == nil {
		return ""
	}
	return u.Email
}
