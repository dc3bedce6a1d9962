// Package metrics exposes Prometheus collectors for the RPC layer and the balance engine.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/eventsplit/internal/calculator"
)

const namespace = "eventsplit"

// Summary computation outcomes.
const (
	ResultOK        = "ok"
	ResultDangling  = "dangling_reference"
	ResultIntegrity = "integrity_violation"
	ResultError     = "error"
)

// Metrics holds the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	summaries   *prometheus.CounterVec
	settlements prometheus.Histogram
}

// New creates the collectors, including Go runtime and process metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		summaries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_computations_total",
			Help:      "Balance and settlement computations by outcome.",
		}, []string{"result"}),
		settlements: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlements_per_summary",
			Help:      "Number of suggested settlements per computed summary.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// ObserveSummary records one balance computation and its outcome.
func (m *Metrics) ObserveSummary(settlements int, err error) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(summaryResult(err)).Inc()
	if err == nil {
		m.settlements.Observe(float64(settlements))
	}
}

func summaryResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, calculator.ErrDanglingParticipantReference):
		return ResultDangling
	case errors.Is(err, calculator.ErrIntegrityViolation):
		return ResultIntegrity
	default:
		return ResultError
	}
}
