// Package testhelper opens migrated in-memory SQLite databases for tests.
package testhelper

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/heartmarshall/todo-service/internal/adapter/sqlite"
	"github.com/heartmarshall/todo-service/internal/config"
	"github.com/heartmarshall/todo-service/migrations"
)

// SetupTestDB opens a private in-memory database, applies goose migrations
// and closes it via t.Cleanup. Every call returns an independent database.
func SetupTestDB(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("testhelper: open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrations.Up(ctx, migrations.SQLite, db, logger); err != nil {
		t.Fatalf("testhelper: migrate sqlite: %v", err)
	}

	return db
}
