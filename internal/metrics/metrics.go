// Package metrics exposes ingestion and session counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ctrcompare"

// Ingestion outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeSchemaError  = "schema_error"
	OutcomeFormatError  = "format_error"
	OutcomeRejectedFile = "rejected_file"
)

// Restore outcomes.
const (
	RestoreRestored = "restored"
	RestoreEmpty    = "empty"
)

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Ingestions        *prometheus.CounterVec
	RowsIngested      *prometheus.CounterVec
	RowsRetained      *prometheus.CounterVec
	IngestionDuration *prometheus.HistogramVec
	Restores          *prometheus.CounterVec
	Resets            prometheus.Counter
	Comparisons       prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Period uploads by period and outcome",
		}, []string{"period", "outcome"}),
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Raw rows read from accepted exports",
		}, []string{"period"}),
		RowsRetained: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_retained_total",
			Help:      "Rows that passed the position and impressions filter",
		}, []string{"period"}),
		IngestionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Time to parse and summarize one export",
			Buckets:   prometheus.DefBuckets,
		}, []string{"period"}),
		Restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_restores_total",
			Help:      "Startup restore attempts by outcome",
		}, []string{"outcome"}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resets_total",
			Help:      "Explicit session resets",
		}),
		Comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparisons computed and persisted",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Ingestions,
		m.RowsIngested,
		m.RowsRetained,
		m.IngestionDuration,
		m.Restores,
		m.Resets,
		m.Comparisons,
	)
	return m
}

// ObserveIngestion records one upload. Row counts are only added on success.
func (m *Metrics) ObserveIngestion(period, outcome string, raw, retained int, elapsed time.Duration) {
	m.Ingestions.WithLabelValues(period, outcome).Inc()
	m.IngestionDuration.WithLabelValues(period).Observe(elapsed.Seconds())
	if outcome != OutcomeSuccess {
		return
	}
	m.RowsIngested.WithLabelValues(period).Add(float64(raw))
	m.RowsRetained.WithLabelValues(period).Add(float64(retained))
}

func (m *Metrics) ObserveRestore(restored bool) {
	outcome := RestoreEmpty
	if restored {
		outcome = RestoreRestored
	}
	m.Restores.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
