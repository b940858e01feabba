package rest

import (
	"context"
	"net/http"
	"time"
)

// pingTimeout bounds a single storage ping made by a probe.
const pingTimeout = 3 * time.Second

// dbPinger defines the minimal interface for storage health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, such as (*sql.DB).PingContext, to a pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler serves the liveness, readiness and health probes.
type HealthHandler struct {
	db      dbPinger
	driver  string
	version string
}

// NewHealthHandler creates a HealthHandler. driver names the storage backend
// reported under the database component.
func NewHealthHandler(db dbPinger, driver, version string) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, version: version}
}

// HealthResponse is the JSON response for /live, /ready and /health.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Driver  string `json:"driver,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when storage answers a ping, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.checkDB(r.Context())

	writeJSON(w, statusCode(db.Status), HealthResponse{
		Status:    db.Status,
		Timestamp: time.Now(),
	})
}

// Health reports the version and the storage component with its ping latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.checkDB(r.Context())

	writeJSON(w, statusCode(db.Status), HealthResponse{
		Status:     db.Status,
		Version:    h.version,
		Components: map[string]CompStatus{"database": db},
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: "down", Driver: h.driver}
	}
	return CompStatus{Status: "ok", Driver: h.driver, Latency: time.Since(start).String()}
}

func statusCode(status string) int {
	if status != "ok" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
