// Command todo-migrate applies or rolls back the storage schema.
//
// Usage:
//
//	todo-migrate [--config path] [--env-file path] up|down|status
//
// Exit codes: 0 = success, 1 = error, 2 = usage error.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/heartmarshall/todo-service/internal/adapter/postgres"
	"github.com/heartmarshall/todo-service/internal/adapter/sqlite"
	"github.com/heartmarshall/todo-service/internal/app"
	"github.com/heartmarshall/todo-service/internal/config"
	"github.com/heartmarshall/todo-service/migrations"
)

var errUsage = errors.New("usage: todo-migrate [--config path] [--env-file path] up|down|status")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var configPath, envFile string
	flagSet := pflag.NewFlagSet("todo-migrate", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config (default: $CONFIG_PATH or ./config.yaml)")
	flagSet.StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return errUsage
	}
	command := flagSet.Arg(0)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg.Log)

	db, closeDB, err := openDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB()

	provider, err := migrations.NewProvider(cfg.Database.Driver, db)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, r := range results {
			logger.Info("migration applied", slog.Int64("version", r.Source.Version))
		}
		fmt.Fprintf(out, "applied %d migration(s)\n", len(results))
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("migration rolled back", slog.Int64("version", r.Source.Version))
		fmt.Fprintf(out, "rolled back version %d\n", r.Source.Version)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			fmt.Fprintf(out, "%-6d %-10s %s\n", s.Source.Version, s.State, s.Source.Path)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	return nil
}

// openDB returns a database/sql handle for the configured driver and the
// function that releases it.
func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		db := postgres.SQLDB(pool)
		return db, func() {
			db.Close()
			pool.Close()
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
