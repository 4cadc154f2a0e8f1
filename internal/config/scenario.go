package config

import (
	"fmt"
	"os"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"gopkg.in/yaml.v3"
)

// Scenario is a saved what-if setup. Zero fields keep the configured default.
type Scenario struct {
	Name           string                 `yaml:"name"`
	ForecastWindow int                    `yaml:"forecast_window"`
	Inventory      domain.InventoryParams `yaml:"inventory"`
	Risk           struct {
		Window     int `yaml:"window"`
		MinPeriods int `yaml:"min_periods"`
		Limit      int `yaml:"limit"`
	} `yaml:"risk"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Apply overlays the non-zero scenario values on base.
func (s *Scenario) Apply(base AnalyticsConfig) AnalyticsConfig {
	if s == nil {
		return base
	}
	setInt(&base.ForecastWindow, s.ForecastWindow)
	setFloat(&base.OrderCost, s.Inventory.OrderCost)
	setFloat(&base.HoldingCost, s.Inventory.HoldingCost)
	setFloat(&base.LeadTimeDays, s.Inventory.LeadTimeDays)
	setFloat(&base.ServiceZ, s.Inventory.ServiceZ)
	setFloat(&base.UnderstockCost, s.Inventory.UnderstockCost)
	setFloat(&base.OverstockCost, s.Inventory.OverstockCost)
	setInt(&base.RiskWindow, s.Risk.Window)
	setInt(&base.RiskMinPeriods, s.Risk.MinPeriods)
	setInt(&base.RiskLimit, s.Risk.Limit)
	return base
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
