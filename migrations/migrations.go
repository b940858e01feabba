// Package migrations embeds the goose SQL migrations for every supported
// storage driver and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Driver names match config.DriverPostgres / config.DriverSQLite.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// FS returns the migration directory for driver.
func FS(driver string) (fs.FS, error) {
	switch driver {
	case Postgres, SQLite:
		return fs.Sub(files, driver)
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}

// NewProvider builds a goose provider for driver over db. goose.NewProvider is
// used instead of the legacy goose.Up so statement splitting follows the
// +goose annotations.
func NewProvider(driver string, db *sql.DB) (*goose.Provider, error) {
	fsys, err := FS(driver)
	if err != nil {
		return nil, err
	}

	dialect := goose.DialectPostgres
	if driver == SQLite {
		dialect = goose.DialectSQLite3
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migrations: new provider: %w", err)
	}
	return provider, nil
}

// Up applies all pending migrations and logs each applied version.
func Up(ctx context.Context, driver string, db *sql.DB, logger *slog.Logger) error {
	provider, err := NewProvider(driver, db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}

	for _, r := range results {
		logger.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
