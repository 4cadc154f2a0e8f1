package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaults(t *testing.T) {
	setDefaults()
	viper.AutomaticEnv()

	cfg := read()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Ledger.Source)
	assert.Equal(t, 7, cfg.Analytics.ForecastWindow)
	assert.Equal(t, 20, cfg.Analytics.RiskLimit)

	params := cfg.Analytics.InventoryParams()
	assert.Equal(t, 100.0, params.OrderCost)
	assert.Equal(t, 5.0, params.HoldingCost)
	assert.Equal(t, 7.0, params.LeadTimeDays)
	assert.Equal(t, 1.65, params.ServiceZ)
	assert.Equal(t, 10.0, params.UnderstockCost)
	assert.Equal(t, 5.0, params.OverstockCost)
}

func TestReadFromEnv(t *testing.T) {
	t.Setenv("EOQ_HOLDING_COST", "2.5")
	t.Setenv("LEDGER_SOURCE", "postgres")
	t.Setenv("CACHE_ENABLED", "true")
	setDefaults()
	viper.AutomaticEnv()

	cfg := read()
	assert.Equal(t, 2.5, cfg.Analytics.HoldingCost)
	assert.Equal(t, "postgres", cfg.Ledger.Source)
	assert.True(t, cfg.Cache.Enabled)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=inv sslmode=disable", c.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/inv?sslmode=disable", c.PoolURL())

	c.URL = "postgres://x@y/z"
	assert.Equal(t, c.URL, c.DSN())
	assert.Equal(t, c.URL, c.PoolURL())
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peak.yaml")
	doc := `
name: peak season
forecast_window: 14
inventory:
  holding_cost: 8
  service_z: 2.05
risk:
  limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "peak season", s.Name)

	base := AnalyticsConfig{ForecastWindow: 7, OrderCost: 100, HoldingCost: 5, ServiceZ: 1.65, RiskLimit: 20, RiskWindow: 14}
	got := s.Apply(base)
	assert.Equal(t, 14, got.ForecastWindow)
	assert.Equal(t, 100.0, got.OrderCost)
	assert.Equal(t, 8.0, got.HoldingCost)
	assert.Equal(t, 2.05, got.ServiceZ)
	assert.Equal(t, 5, got.RiskLimit)
	assert.Equal(t, 14, got.RiskWindow)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
