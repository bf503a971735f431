package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the server. All methods are
// safe on a nil receiver so callers never have to guard.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	toolsTotal      *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	oseonTotal      *prometheus.CounterVec
	oseonDuration   *prometheus.HistogramVec
}

// NewMetrics initialises a private registry with the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oseon_mcp_http_requests_total",
		Help: "HTTP requests on the ops surface by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oseon_mcp_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	tools := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oseon_mcp_tool_invocations_total",
		Help: "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})
	toolDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oseon_mcp_tool_duration_seconds",
		Help:    "Tool invocation duration per tool.",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
	oseon := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oseon_mcp_backend_requests_total",
		Help: "Requests against the Oseon API by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	oseonDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oseon_mcp_backend_request_duration_seconds",
		Help:    "Oseon API request duration per endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	registry.MustRegister(requests, duration, tools, toolDuration, oseon, oseonDuration)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		toolsTotal:      tools,
		toolDuration:    toolDuration,
		oseonTotal:      oseon,
		oseonDuration:   oseonDuration,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and duration for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveTool records one tool invocation.
func (m *Metrics) ObserveTool(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.toolsTotal.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveBackendRequest records one request against the Oseon API.
func (m *Metrics) ObserveBackendRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.oseonTotal.WithLabelValues(endpoint, outcome).Inc()
	m.oseonDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
