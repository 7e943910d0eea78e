// Package metrics exposes dispatch metrics for Prometheus scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	invocationsTotal *prometheus.CounterVec
	pendingFeedback  prometheus.Gauge
	dispatchDuration prometheus.Histogram
}

// Dispatch duration buckets in seconds; most invocations are sub-millisecond
// unless a command touches disk or the network.
var defaultBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,

		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "weaver",
				Name:      "invocations_total",
				Help:      "Total number of processed invocations",
			},
			[]string{"status"},
		),

		pendingFeedback: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "weaver",
				Name:      "pending_feedback_requests",
				Help:      "Feedback requests awaiting a response",
			},
		),

		dispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "weaver",
				Name:      "dispatch_duration_seconds",
				Help:      "Wall time of one invocation dispatch",
				Buckets:   defaultBuckets,
			},
		),
	}
	registry.MustRegister(m.invocationsTotal, m.pendingFeedback, m.dispatchDuration)
	return m
}

// ObserveDispatch records one invocation outcome.
func (m *Metrics) ObserveDispatch(success bool, d time.Duration) {
	status := "ok"
	if !success {
		status = "failed"
	}
	m.invocationsTotal.WithLabelValues(status).Inc()
	m.dispatchDuration.Observe(d.Seconds())
}

// SetPendingFeedback tracks the mediator's in-flight request count.
func (m *Metrics) SetPendingFeedback(n int) {
	m.pendingFeedback.Set(float64(n))
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
