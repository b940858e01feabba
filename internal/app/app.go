package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/todo-service/internal/config"
	"github.com/heartmarshall/todo-service/internal/service/todo"
	"github.com/heartmarshall/todo-service/internal/transport/middleware"
	"github.com/heartmarshall/todo-service/internal/transport/rest"
)

// Run is the application entry point. It initializes the logger, opens the
// configured storage, builds the todo service and its HTTP surface, and
// serves until ctx is cancelled. Shutdown drains in-flight requests, then
// closes storage, then stops the rate limiter.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("driver", cfg.Database.Driver),
		slog.String("status_mode", cfg.HTTP.StatusMode),
	)

	store, err := openStorage(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	svc := todo.NewService(logger, store.todos, store.tx, todo.Limits{
		MaxTitleLength:       cfg.Todo.MaxTitleLength,
		MaxDescriptionLength: cfg.Todo.MaxDescriptionLength,
	})

	rt := routes{
		todos: rest.NewTodoHandler(svc, logger, rest.TodoHandlerConfig{
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
			Strict:       cfg.HTTP.IsStrict(),
		}),
		health: rest.NewHealthHandler(store.ping, cfg.Database.Driver, BuildVersion()),
	}
	if cfg.Metrics.Enabled {
		rt.metrics = middleware.NewMetrics("todo", cfg.Metrics.Path)
	}
	if cfg.RateLimit.Enabled {
		rt.limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}
	defer func() {
		store.close()
		if rt.limiter != nil {
			rt.limiter.Stop()
		}
		logger.Info("storage closed")
	}()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newHandler(cfg, logger, rt),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
