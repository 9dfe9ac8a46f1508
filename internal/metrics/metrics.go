// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the import pipeline metrics.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	RowsTotal          *prometheus.CounterVec
	SkippedRowsTotal   *prometheus.CounterVec
	SubmittedTotal     *prometheus.CounterVec
	ImportIDCollisions prometheus.Counter
	RunDuration        prometheus.Histogram
}

// New constructs the metrics and registers them with reg. A nil reg means
// the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbridge_runs_total",
				Help: "Import runs by mode and status",
			},
			[]string{"mode", "status"},
		),
		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbridge_transactions_total",
				Help: "Normalized transactions by source",
			},
			[]string{"source"},
		),
		SkippedRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbridge_skipped_rows_total",
				Help: "Rows that did not produce a transaction, by source",
			},
			[]string{"source"},
		),
		SubmittedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbridge_ledger_transactions_total",
				Help: "Transactions answered by the ledger, by outcome",
			},
			[]string{"outcome"},
		),
		ImportIDCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankbridge_import_id_collisions_total",
			Help: "Import ids shared by more than one transaction of a batch",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankbridge_run_duration_seconds",
			Help:    "Import run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RowsTotal,
		m.SkippedRowsTotal,
		m.SubmittedTotal,
		m.ImportIDCollisions,
		m.RunDuration,
	)

	return m
}

// ObserveRun records the outcome of one run.
func (m *Metrics) ObserveRun(mode, status string, d time.Duration) {
	if m == nil {
		return
	}

	m.RunsTotal.WithLabelValues(mode, status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveRows(source string, produced, skipped int) {
	if m == nil {
		return
	}

	m.RowsTotal.WithLabelValues(source).Add(float64(produced))
	m.SkippedRowsTotal.WithLabelValues(source).Add(float64(skipped))
}

func (m *Metrics) ObserveSubmission(created, duplicates, collisions int) {
	if m == nil {
		return
	}

	m.SubmittedTotal.WithLabelValues("created").Add(float64(created))
	m.SubmittedTotal.WithLabelValues("duplicate").Add(float64(duplicates))
	m.ImportIDCollisions.Add(float64(collisions))
}
