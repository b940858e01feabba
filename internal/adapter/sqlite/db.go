// Package sqlite provides the embedded SQLite storage backend: connection
// setup, context-scoped transactions and driver error mapping.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/heartmarshall/todo-service/internal/config"
)

// txLock is the BEGIN mode for every transaction.
const txLock = "immediate"

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// defaultPragmas are applied to every new connection through the DSN.
var defaultPragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// Open opens the SQLite database described by cfg.DSN, applies connection
// pragmas and pings it. In-memory databases are pinned to a single connection
// so every query sees the same data.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := BuildDSN(cfg.DSN)

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if IsMemory(cfg.DSN) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		if cfg.MaxConns > 0 {
			db.SetMaxOpenConns(int(cfg.MaxConns))
		}
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// IsMemory reports whether dsn names an in-memory database.
func IsMemory(dsn string) bool {
	return dsn == ":memory:" ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

// BuildDSN appends the default pragmas to dsn unless it already sets its own,
// and makes transactions begin IMMEDIATE unless _txlock is given. A deferred
// read-then-write transaction cannot wait on busy_timeout when it upgrades to
// a writer, so concurrent updates would fail with SQLITE_BUSY.
func BuildDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_pragma=") {
		pragmas := defaultPragmas
		if IsMemory(dsn) {
			// WAL is meaningless for memory databases.
			pragmas = pragmas[:2]
		}
		for _, p := range pragmas {
			params = append(params, "_pragma="+p)
		}
	}
	if !strings.Contains(dsn, "_txlock=") {
		params = append(params, "_txlock="+txLock)
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
