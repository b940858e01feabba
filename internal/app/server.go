package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/todo-service/internal/config"
	"github.com/heartmarshall/todo-service/internal/transport/middleware"
	"github.com/heartmarshall/todo-service/internal/transport/rest"
)

// routes groups the handlers and optional middleware the HTTP surface is built from.
type routes struct {
	todos   http.Handler
	health  *rest.HealthHandler
	metrics *middleware.Metrics
	limiter *middleware.RateLimiter
}

// newHandler mounts the todo resource, the probes and the metrics endpoint
// and wraps them in the middleware chain. Probes and metrics match their exact
// path; everything else goes to the todo handler, which answers unknown paths
// with its JSON 404. Paths are matched as sent, never cleaned or redirected.
func newHandler(cfg *config.Config, logger *slog.Logger, rt routes) http.Handler {
	exact := map[string]http.Handler{
		"/live":   http.HandlerFunc(rt.health.Live),
		"/ready":  http.HandlerFunc(rt.health.Ready),
		"/health": http.HandlerFunc(rt.health.Health),
	}

	var instrument middleware.Middleware
	if rt.metrics != nil {
		exact[cfg.Metrics.Path] = rt.metrics.Handler()
		instrument = rt.metrics.Instrument
	}

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := exact[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		rt.todos.ServeHTTP(w, r)
	})

	var limit middleware.Middleware
	if rt.limiter != nil {
		limit = rt.limiter.Middleware
	}

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		instrument,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limit,
	)(root)
}
