package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankbridge/internal/metrics"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveRun("checking", "submitted", 2*time.Second)
	m.ObserveRun("checking", "submitted", time.Second)
	m.ObserveRows("export", 5, 2)
	m.ObserveRows("pending", 1, 0)
	m.ObserveSubmission(4, 2, 1)

	body := scrape(t, reg)

	for _, want := range []string{
		`bankbridge_runs_total{mode="checking",status="submitted"} 2`,
		`bankbridge_transactions_total{source="export"} 5`,
		`bankbridge_transactions_total{source="pending"} 1`,
		`bankbridge_skipped_rows_total{source="export"} 2`,
		`bankbridge_ledger_transactions_total{outcome="created"} 4`,
		`bankbridge_ledger_transactions_total{outcome="duplicate"} 2`,
		`bankbridge_import_id_collisions_total 1`,
		`bankbridge_run_duration_seconds_count 2`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("checking", "failed", time.Second)
		m.ObserveRows("export", 1, 1)
		m.ObserveSubmission(1, 1, 1)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	assert.Panics(t, func() { metrics.New(reg) })
}
