package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/todo-service/internal/adapter/postgres"
	pgtodo "github.com/heartmarshall/todo-service/internal/adapter/postgres/todo"
	"github.com/heartmarshall/todo-service/internal/adapter/sqlite"
	sqltodo "github.com/heartmarshall/todo-service/internal/adapter/sqlite/todo"
	"github.com/heartmarshall/todo-service/internal/config"
	"github.com/heartmarshall/todo-service/internal/domain"
	"github.com/heartmarshall/todo-service/internal/transport/rest"
	"github.com/heartmarshall/todo-service/migrations"
)

type todoStore interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	GetByID(ctx context.Context, id int64) (*domain.Todo, error)
	Update(ctx context.Context, id int64, params domain.TodoUpdateParams) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Todo, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage is an opened backend: the todo repository, its transaction manager,
// a health pinger and the function that releases the handle.
type storage struct {
	todos todoStore
	tx    txRunner
	ping  rest.PingFunc
	close func()
}

// openStorage connects to the configured driver and, when enabled, applies
// pending migrations before returning.
func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		db := postgres.SQLDB(pool)
		err := migrations.Up(ctx, migrations.Postgres, db, logger)
		db.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &storage{
		todos: pgtodo.New(pool),
		tx:    postgres.NewTxManager(pool),
		ping:  pool.Ping,
		close: pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	db, err := sqlite.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, migrations.SQLite, db, logger); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &storage{
		todos: sqltodo.New(db),
		tx:    sqlite.NewTxManager(db),
		ping:  db.PingContext,
		close: func() {
			if err := db.Close(); err != nil {
				logger.Error("close sqlite", slog.String("error", err.Error()))
			}
		},
	}, nil
}
