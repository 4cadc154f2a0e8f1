package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/api/middleware"
	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/metrics"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/andresuchdata/inventory-analytics/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	day0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []domain.SalesRecord
	for i, u := range []int{10, 20, 30, 40, 10, 20, 30, 40} {
		d := day0.AddDate(0, 0, i)
		records = append(records,
			domain.NewSalesRecord(d, "Chicago", "P1", "Home", u, 10, 6),
			domain.NewSalesRecord(d, "Dallas", "P2", "Toys", u/2, 20, 12),
		)
	}

	cfg := config.AnalyticsConfig{
		ForecastWindow: 3,
		OrderCost:      100,
		HoldingCost:    5,
		LeadTimeDays:   7,
		ServiceZ:       1.65,
		UnderstockCost: 10,
		OverstockCost:  5,
	}
	m := metrics.New()
	svc := service.NewAnalyticsService(repository.NewMemoryLedgerRepository(records), nil, cfg, m)
	return NewRouter(&Services{AnalyticsService: svc, Metrics: m}, []string{"*"})
}

func do(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestKPIFilter(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/kpi?stores=Chicago", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 8, body["records"])
	assert.EqualValues(t, 1, body["stores"])

	rec = do(t, router, http.MethodGet, "/api/v1/kpi?stores=Chicago,Dallas&from=2024-01-02&to=2024-01-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 4, decode(t, rec)["records"])

	rec = do(t, router, http.MethodGet, "/api/v1/kpi?from=01/02/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/kpi?from=2024-01-05&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 3, body["window"])
	points := body["points"].([]any)
	require.Len(t, points, 8)
	assert.Nil(t, points[0].(map[string]any)["forecast"])

	rec = do(t, router, http.MethodGet, "/api/v1/forecast?window=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/forecast?window=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestABCAndBottleneckEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 2)
	// P2 sells half the units at double the cost, so the two tie and product order decides
	assert.Equal(t, "P1", items[0].(map[string]any)["product"])

	rec = do(t, router, http.MethodGet, "/api/v1/bottlenecks?products=P1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])
}

func TestInventoryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/inventory?order_cost=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	params := decode(t, rec)["params"].(map[string]any)
	assert.EqualValues(t, 50, params["order_cost"])
	assert.EqualValues(t, 5, params["holding_cost"])

	rec = do(t, router, http.MethodGet, "/api/v1/inventory?holding_cost=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/inventory?service_z=high", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/inventory?from=2024-01-01&to=2024-01-01", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient_data", decode(t, rec)["code"])
}

func TestDashboardAndDimensions(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/dashboard?window=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotNil(t, body["inventory"])
	assert.EqualValues(t, 2, body["forecast"].(map[string]any)["window"])

	rec = do(t, router, http.MethodGet, "/api/v1/dimensions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dims domain.LedgerDimensions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dims))
	assert.Equal(t, []string{"Chicago", "Dallas"}, dims.Stores)
	assert.Equal(t, []string{"Home", "Toys"}, dims.Categories)
}

func TestFormulaEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/formulas/eoq", map[string]float64{"demand": 1000, "order_cost": 100, "holding_cost": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 200.0, decode(t, rec)["eoq"], 1e-9)

	rec = do(t, router, http.MethodPost, "/api/v1/formulas/eoq", map[string]float64{"demand": 1000, "order_cost": 100, "holding_cost": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/formulas/eoq", map[string]float64{"demand": 1000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/formulas/rop", map[string]float64{"avg_demand": 20, "lead_time": 7, "std_dev": 5, "service_z": 1.65})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 161.83, decode(t, rec)["reorder_point"], 0.01)

	rec = do(t, router, http.MethodPost, "/api/v1/formulas/newsvendor", map[string]float64{"mu": 100, "sigma": 20, "understock_cost": 5, "overstock_cost": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.InDelta(t, 0.5, body["critical_ratio"], 1e-12)
	assert.InDelta(t, 100.0, body["quantity"], 1e-9)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	do(t, router, http.MethodGet, "/api/v1/kpi", nil)

	rec := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.True(t, strings.Contains(text, `http_requests_total{route="/api/v1/kpi",status="200"} 1`), text)
	assert.Contains(t, text, "ledger_cache_misses_total 1")
}

func TestCORSAllowAll(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	parsed, all := normalizeAllowedOrigins([]string{"http://a.com, http://b.com", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, parsed)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
