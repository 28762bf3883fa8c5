// Package app wires together the database, migrations, session keyring and
// services that make up a running NoteVault instance.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/notevault/notevault/internal/config"
	"github.com/notevault/notevault/internal/keyring"
	"github.com/notevault/notevault/internal/logging"
	"github.com/notevault/notevault/internal/migrations"
	"github.com/notevault/notevault/internal/services"

	_ "modernc.org/sqlite"
)

// App holds the shared infrastructure and the service layer.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	DB      *sql.DB
	Keyring *keyring.Keyring

	Users       *services.UserService
	Vaults      *services.VaultService
	Notes       *services.NoteService
	Collections *services.CollectionService
}

// New opens the database, applies pending migrations and constructs the
// services. The database directory is created if it does not exist.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// A single connection serializes all statements, which keeps
	// read-modify-write sequences on one SQLite file race-free.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", cfg.DatabasePath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	kr := keyring.New()

	app := &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Keyring:     kr,
		Users:       services.NewUserService(db, kr, logger),
		Vaults:      services.NewVaultService(db, kr, logger),
		Notes:       services.NewNoteService(db, kr, logger),
		Collections: services.NewCollectionService(db, kr, logger),
	}

	logger.Info(ctx, "application initialized", "database", cfg.DatabasePath)
	return app, nil
}

// RunMigrations applies all embedded migrations that are not yet applied.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.DB.Close()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
