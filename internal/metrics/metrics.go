// Package metrics provides Prometheus instrumentation for the quote engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes.
const (
	OutcomeReady  = "ready"
	OutcomeFailed = "failed"
	OutcomeStale  = "stale"
)

var (
	// LookupsTotal counts attribute lookups by field and outcome
	// (ready, failed, stale).
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_lookups_total",
		Help: "Total attribute lookups completed",
	}, []string{"field", "outcome"})

	// LookupLatency tracks provider latency per dependent field.
	LookupLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_lookup_latency_seconds",
		Help:    "Attribute lookup latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"field"})

	// RateRefreshTotal counts exchange rate fetches by outcome
	// (ok, rejected, failed, stale, same_currency).
	RateRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_rate_refresh_total",
		Help: "Exchange rate refresh attempts",
	}, []string{"outcome"})

	// CalculationsTotal counts explicit quote calculations by vehicle condition.
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_calculations_total",
		Help: "Total quote calculations",
	}, []string{"condition"})

	// ActiveSessions tracks the number of open quote sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quote_active_sessions",
		Help: "Number of currently open quote sessions",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quote_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// CatalogCacheTotal counts catalog cache lookups by result (hit, miss, error).
	CatalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_catalog_cache_total",
		Help: "Catalog cache lookups",
	}, []string{"result"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLookup records one completed lookup.
func ObserveLookup(field, outcome string, started time.Time) {
	LookupsTotal.WithLabelValues(field, outcome).Inc()
	if outcome != OutcomeStale {
		LookupLatency.WithLabelValues(field).Observe(time.Since(started).Seconds())
	}
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Session IDs live in the path; label by route pattern instead.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
