package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// RiskWeights blend the normalized components into the stockout risk score.
type RiskWeights struct {
	Demand     float64 `json:"demand"`
	Volatility float64 `json:"volatility"`
	Trend      float64 `json:"trend"`
}

// RiskConfig controls the rolling windows and ranking of the risk scorer.
type RiskConfig struct {
	Window     int         // trailing observations per rolling statistic
	MinPeriods int         // observations required before a statistic is defined
	Weights    RiskWeights // composite score weights
	Limit      int         // rows kept after ranking
}

// DefaultRiskConfig returns the 14-observation, 3-minimum, 0.5/0.3/0.2, top-20 setup.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		Window:     14,
		MinPeriods: 3,
		Weights:    RiskWeights{Demand: 0.5, Volatility: 0.3, Trend: 0.2},
		Limit:      20,
	}
}

// RiskScorer ranks (store, product) pairs by stockout risk.
type RiskScorer struct {
	cfg RiskConfig
}

// NewRiskScorer creates a scorer. Non-positive window, min periods or limit and
// all-zero weights fall back to the defaults.
func NewRiskScorer(cfg RiskConfig) *RiskScorer {
	def := DefaultRiskConfig()
	if cfg.Weights == (RiskWeights{}) {
		cfg.Weights = def.Weights
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MinPeriods <= 0 {
		cfg.MinPeriods = def.MinPeriods
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	return &RiskScorer{cfg: cfg}
}

// DetectBottlenecks scores the ledger with DefaultRiskConfig.
func DetectBottlenecks(records []domain.SalesRecord) []domain.BottleneckRow {
	return NewRiskScorer(DefaultRiskConfig()).Score(records)
}

type skuKey struct {
	Store   string
	Product string
}

// dailyRow is one (store, product, date) aggregate moving through the scoring stages.
type dailyRow struct {
	key      skuKey
	date     time.Time
	units    int
	category string

	rollingMean domain.NullFloat
	rollingStd  domain.NullFloat
	trend       domain.NullFloat

	// zero-filled copies of the above
	mean float64
	std  float64
	pct  float64
}

// Score runs the full pipeline: daily aggregation, per-pair rolling statistics,
// cleaning, normalization against the global means, composite scoring, latest
// row per pair, ranking.
func (s *RiskScorer) Score(records []domain.SalesRecord) []domain.BottleneckRow {
	keys, groups := aggregateDaily(records)
	if len(keys) == 0 {
		return []domain.BottleneckRow{}
	}

	// Pass 1: rolling statistics within each group, then cleaning.
	var (
		rowCount int
		meanSum  float64
		stdSum   float64
	)
	for _, key := range keys {
		series := groups[key]
		s.rollingStats(series)
		for _, row := range series {
			row.mean = row.rollingMean.OrZero()
			row.std = row.rollingStd.OrZero()
			row.pct = row.trend.OrZero()
			meanSum += row.mean
			stdSum += row.std
			rowCount++
		}
	}

	// Pass 2: normalize with the cross-row means of the cleaned statistics.
	meanDenom := math.Max(meanSum/float64(rowCount), 1)
	stdDenom := math.Max(stdSum/float64(rowCount), 1)

	latest := make([]domain.BottleneckRow, 0, len(keys))
	for _, key := range keys {
		series := groups[key]
		last := series[len(series)-1]

		normDemand := last.mean / meanDenom
		normVolatility := last.std / stdDenom
		normTrend := math.Max(last.pct, 0)

		latest = append(latest, domain.BottleneckRow{
			Store:          key.Store,
			Product:        key.Product,
			Category:       last.category,
			Date:           last.date,
			UnitsSold:      last.units,
			StockoutRisk:   s.cfg.Weights.Demand*normDemand + s.cfg.Weights.Volatility*normVolatility + s.cfg.Weights.Trend*normTrend,
			RollingMean:    last.mean,
			RollingStd:     last.std,
			DemandTrend:    last.pct,
			NormDemand:     normDemand,
			NormVolatility: normVolatility,
			NormTrend:      normTrend,
		})
	}

	sort.SliceStable(latest, func(i, j int) bool {
		a, b := latest[i], latest[j]
		if a.StockoutRisk != b.StockoutRisk {
			return a.StockoutRisk > b.StockoutRisk
		}
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		return a.Product < b.Product
	})

	if len(latest) > s.cfg.Limit {
		latest = latest[:s.cfg.Limit]
	}
	return latest
}

// aggregateDaily collapses records to one row per (store, product, date) and
// returns the groups sorted by date. Keys keep first-seen order.
func aggregateDaily(records []domain.SalesRecord) ([]skuKey, map[skuKey][]*dailyRow) {
	type dayKey struct {
		sku  skuKey
		date time.Time
	}

	keys := make([]skuKey, 0)
	groups := make(map[skuKey][]*dailyRow)
	byDay := make(map[dayKey]*dailyRow)

	for _, r := range records {
		sku := skuKey{Store: r.Store, Product: r.Product}
		dk := dayKey{sku: sku, date: domain.TruncateDay(r.Date)}

		if row, ok := byDay[dk]; ok {
			row.units += r.UnitsSold
			continue
		}

		row := &dailyRow{key: sku, date: dk.date, units: r.UnitsSold, category: r.Category}
		byDay[dk] = row
		if _, ok := groups[sku]; !ok {
			keys = append(keys, sku)
		}
		groups[sku] = append(groups[sku], row)
	}

	for _, series := range groups {
		sort.SliceStable(series, func(i, j int) bool { return series[i].date.Before(series[j].date) })
	}
	return keys, groups
}

// rollingStats fills the rolling mean, sample std and percentage trend of one
// date-ordered group. Nothing crosses into other groups.
func (s *RiskScorer) rollingStats(series []*dailyRow) {
	window := make([]float64, 0, s.cfg.Window)
	for i, row := range series {
		lo := i - s.cfg.Window + 1
		if lo < 0 {
			lo = 0
		}
		window = window[:0]
		for _, r := range series[lo : i+1] {
			window = append(window, float64(r.units))
		}

		if len(window) >= s.cfg.MinPeriods {
			row.rollingMean = domain.Float(stat.Mean(window, nil))
			if len(window) >= 2 {
				row.rollingStd = domain.Float(stat.StdDev(window, nil))
			}
		}

		if i == 0 {
			continue
		}
		prev := series[i-1].rollingMean
		if prev.Valid && row.rollingMean.Valid {
			// prev == 0 gives Inf or NaN here; cleaning turns it into 0.
			row.trend = domain.Float((row.rollingMean.Value - prev.Value) / prev.Value)
		}
	}
}
