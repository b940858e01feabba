package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP collectors and the registry they live in.
type Metrics struct {
	path     string
	registry *prometheus.Registry
	inflight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates collectors on a fresh registry, so tests and multiple
// servers in one process do not collide on the default registerer. path is
// where the registry is exposed and is kept as its own label value.
func NewMetrics(namespace, path string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		path:     path,
		registry: reg,
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		m.inflight,
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument records in-flight, count and latency for every request.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		sw := wrapStatus(w)
		next.ServeHTTP(sw, r)

		method := canonicalMethod(r.Method)
		path := m.canonicalPath(r.URL.Path)
		m.requests.WithLabelValues(method, path, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// canonicalPath collapses per-record paths so label cardinality stays bounded.
func (m *Metrics) canonicalPath(p string) string {
	switch {
	case p == "/todos":
		return p
	case strings.HasPrefix(p, "/todos/"):
		return "/todos/{id}"
	case p == "/live", p == "/ready", p == "/health", p == m.path:
		return p
	default:
		return "other"
	}
}

// canonicalMethod keeps the methods the service knows and folds the rest.
func canonicalMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodOptions, http.MethodHead:
		return method
	default:
		return "other"
	}
}
