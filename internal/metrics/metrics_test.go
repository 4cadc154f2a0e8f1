package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/kpi", 200, 15*time.Millisecond)
	m.ObserveRequest("/api/v1/kpi", 200, 5*time.Millisecond)
	m.ObserveRequest("", 404, time.Millisecond)
	m.ObserveLedgerLoad(120, true)
	m.ObserveLedgerLoad(80, false)
	m.ObserveLedgerLoad(80, false)
	m.TimeAnalytics("abc")()

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{route="/api/v1/kpi",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "ledger_cache_hits_total 1")
	assert.Contains(t, body, "ledger_cache_misses_total 2")
	assert.Contains(t, body, `analytics_duration_seconds_count{operation="abc"} 1`)
	assert.Contains(t, body, "ledger_records_loaded_count 3")
}

func TestMetricsInstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.ObserveLedgerLoad(1, true)

	assert.Contains(t, scrape(t, a), "ledger_cache_hits_total 1")
	assert.Contains(t, scrape(t, b), "ledger_cache_hits_total 0")
}
