package ledger

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// GeneratorConfig describes a synthetic ledger: every store sells every
// product on every day of [Start, End].
type GeneratorConfig struct {
	Stores     []string
	Products   []string
	Categories []string
	Start      time.Time
	End        time.Time
	Seed       int64

	DemandMean float64
	DemandStd  float64
	PriceMin   float64
	PriceMax   float64
	CostRatio  float64
}

// DefaultGeneratorConfig is the demo ledger: 4 stores, 20 products, 2024 through 2025.
func DefaultGeneratorConfig() GeneratorConfig {
	products := make([]string, 20)
	for i := range products {
		products[i] = fmt.Sprintf("P%d", i+1)
	}
	return GeneratorConfig{
		Stores:     []string{"Minneapolis", "Chicago", "Dallas", "Atlanta"},
		Products:   products,
		Categories: []string{"Electronics", "Home", "Grocery", "Apparel"},
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Seed:       42,
		DemandMean: 20,
		DemandStd:  5,
		PriceMin:   10,
		PriceMax:   100,
		CostRatio:  0.6,
	}
}

// Generator produces reproducible synthetic ledgers.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator validates cfg and seeds the generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	switch {
	case len(cfg.Stores) == 0 || len(cfg.Products) == 0 || len(cfg.Categories) == 0:
		return nil, fmt.Errorf("generator needs at least one store, product and category")
	case cfg.Start.IsZero() || cfg.End.Before(cfg.Start):
		return nil, fmt.Errorf("generator date range is empty: %s to %s",
			cfg.Start.Format(domain.DateLayout), cfg.End.Format(domain.DateLayout))
	case cfg.PriceMin <= 0 || cfg.PriceMax < cfg.PriceMin:
		return nil, fmt.Errorf("generator price range is invalid: [%v, %v]", cfg.PriceMin, cfg.PriceMax)
	case cfg.CostRatio <= 0 || cfg.CostRatio > 1:
		return nil, fmt.Errorf("generator cost ratio must be within (0, 1], got %v", cfg.CostRatio)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Each emits records store by store, product by product, day by day, and stops
// at the first error returned by fn.
func (g *Generator) Each(fn func(domain.SalesRecord) error) error {
	start := domain.TruncateDay(g.cfg.Start)
	end := domain.TruncateDay(g.cfg.End)
	for _, store := range g.cfg.Stores {
		for _, product := range g.cfg.Products {
			for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
				if err := fn(g.next(day, store, product)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Generate collects every record of the configured ledger.
func (g *Generator) Generate() []domain.SalesRecord {
	days := int(domain.TruncateDay(g.cfg.End).Sub(domain.TruncateDay(g.cfg.Start)).Hours()/24) + 1
	out := make([]domain.SalesRecord, 0, len(g.cfg.Stores)*len(g.cfg.Products)*days)
	_ = g.Each(func(r domain.SalesRecord) error {
		out = append(out, r)
		return nil
	})
	return out
}

func (g *Generator) next(day time.Time, store, product string) domain.SalesRecord {
	// truncate toward zero, then floor at 0
	demand := int(math.Max(0, math.Trunc(g.rng.NormFloat64()*g.cfg.DemandStd+g.cfg.DemandMean)))
	price := g.cfg.PriceMin + g.rng.Float64()*(g.cfg.PriceMax-g.cfg.PriceMin)
	category := g.cfg.Categories[g.rng.Intn(len(g.cfg.Categories))]
	return domain.NewSalesRecord(day, store, product, category, demand, price, price*g.cfg.CostRatio)
}
