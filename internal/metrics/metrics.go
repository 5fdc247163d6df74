// Package metrics exposes Prometheus metrics for HTTP traffic and ledger
// operations on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the registered collectors.
type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   prometheus.Gauge
	opCnt      *prometheus.CounterVec
	opDur      *prometheus.HistogramVec
}

// New registers all collectors under namespace.
func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: r,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help: "HTTP request latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInfl: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		opCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operations_total",
			Help: "GraphQL operations by field and outcome.",
		}, []string{"operation", "outcome"}),
		opDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help: "GraphQL operation latency.", Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl, m.opCnt, m.opDur)
	return m
}

// Observe records one finished operation. A nil receiver is a no-op so
// callers can run without metrics.
func (m *Metrics) Observe(operation, outcome string, since time.Time) {
	if m == nil {
		return
	}
	m.opCnt.WithLabelValues(operation, outcome).Inc()
	m.opDur.WithLabelValues(operation).Observe(time.Since(since).Seconds())
}

// Middleware counts and times requests. route labels the request; pass the
// mux pattern rather than the raw path to keep cardinality bounded.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInfl.Inc()
		defer m.httpInfl.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		m.httpReqCnt.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.httpDur.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
