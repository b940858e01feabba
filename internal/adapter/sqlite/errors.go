package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/heartmarshall/todo-service/internal/domain"
)

// MapError converts database/sql and SQLite errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through wrapped.
func MapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s %d: %w", entity, id, domain.ErrConflict)
		}
		if sqErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%s %d: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %d: %w", entity, id, err)
}
