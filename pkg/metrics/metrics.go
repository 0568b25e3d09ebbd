// Package metrics exposes Prometheus instrumentation for probe calls
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "probe"

// Metrics records per-route call counts and call intervals.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	callsTotal    *prometheus.CounterVec
	callInterval  *prometheus.HistogramVec
	lastCallStamp *prometheus.GaugeVec
}

// NewMetrics creates the probe metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of calls per probe route",
			},
			[]string{"route"},
		),
		callInterval: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_interval_seconds",
				Help:      "Time elapsed between consecutive calls to the same probe route",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 300, 900, 3600},
			},
			[]string{"route"},
		),
		lastCallStamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_call_timestamp_seconds",
				Help:      "Unix time of the most recent call per probe route",
			},
			[]string{"route"},
		),
	}
}

// ObserveCall records one call to route that arrived elapsed after the previous one
func (m *Metrics) ObserveCall(route string, elapsed time.Duration, at time.Time) {
	if m == nil {
		return
	}

	m.callsTotal.WithLabelValues(route).Inc()
	m.callInterval.WithLabelValues(route).Observe(elapsed.Seconds())
	m.lastCallStamp.WithLabelValues(route).Set(float64(at.UnixNano()) / float64(time.Second))
}

// Handler serves the metrics gathered by g in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
