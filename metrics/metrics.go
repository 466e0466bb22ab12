// Package metrics holds the Prometheus instruments for the simulation server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for narrator calls.
const (
	ResultOK             = "ok"
	ResultTransportError = "transport_error"
	ResultInvalidReply   = "invalid_reply"
)

// Metrics bundles every instrument on one registry.
type Metrics struct {
	registry *prometheus.Registry

	NarratorRequests *prometheus.CounterVec
	NarratorDuration *prometheus.HistogramVec
	Choices          *prometheus.CounterVec
	Sessions         prometheus.Gauge
	ArchivedRuns     prometheus.Counter
}

// New registers all instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		NarratorRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agi_race_narrator_requests_total",
				Help: "Total number of generation requests, partitioned by result.",
			},
			[]string{"model", "result"},
		),
		NarratorDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agi_race_narrator_request_duration_seconds",
				Help:    "Histogram of generation request durations.",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. 32s
			},
			[]string{"model"},
		),
		Choices: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agi_race_choices_total",
				Help: "Player choices by outcome.",
			},
			[]string{"outcome"},
		),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "agi_race_sessions",
			Help: "Live player sessions.",
		}),
		ArchivedRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "agi_race_archived_runs_total",
			Help: "Finished runs written to the archive.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
