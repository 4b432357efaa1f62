package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/calcbench/internal/orchestration"
)

const metricsNamespace = "calcbench"

// Metrics holds the server's Prometheus collectors. Each instance owns a
// private registry, so several servers (or tests) can coexist in one
// process.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	activeRequests    prometheus.Gauge
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	evaluationsTotal  *prometheus.CounterVec
	benchmarkDuration *prometheus.HistogramVec
	benchmarkFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_requests",
			Help:      "Number of HTTP requests being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		evaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Expression evaluations by backend and outcome.",
		}, []string{"backend", "outcome"}),
		benchmarkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "benchmark_case_duration_seconds",
			Help:      "Duration of benchmark jobs by case and backend.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"case", "backend"}),
		benchmarkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "benchmark_case_failures_total",
			Help:      "Failed benchmark jobs by case and backend.",
		}, []string{"case", "backend"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.activeRequests,
		m.requestsTotal,
		m.requestDuration,
		m.evaluationsTotal,
		m.benchmarkDuration,
		m.benchmarkFailures,
	)
	// Vectors only appear in the exposition once a child exists.
	m.requestsTotal.WithLabelValues("/health", "200")
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// IncrementActiveRequests marks a request as in flight.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(path string, code int, seconds float64) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(seconds)
}

// ObserveEvaluation counts an /evaluate call.
func (m *Metrics) ObserveEvaluation(backend string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.evaluationsTotal.WithLabelValues(backend, outcome).Inc()
}

// ObserveResult implements orchestration.ResultObserver.
func (m *Metrics) ObserveResult(r orchestration.CaseResult) {
	if r.Err != nil {
		m.benchmarkFailures.WithLabelValues(r.Case.Name, r.Backend).Inc()
		return
	}
	m.benchmarkDuration.WithLabelValues(r.Case.Name, r.Backend).Observe(r.Duration.Seconds())
}

// WritePrometheus serves the exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

var _ orchestration.ResultObserver = (*Metrics)(nil)
