package analytics

import (
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes the KPI header: revenue, units, mean price and mean unit margin.
func Summarize(records []domain.SalesRecord) domain.KPISummary {
	if len(records) == 0 {
		return domain.KPISummary{}
	}

	revenue := decimal.Zero
	prices := make([]float64, len(records))
	margins := make([]float64, len(records))
	stores := make(map[string]struct{})
	products := make(map[string]struct{})

	summary := domain.KPISummary{Records: len(records)}
	for i, r := range records {
		revenue = revenue.Add(decimal.NewFromInt(int64(r.UnitsSold)).Mul(decimal.NewFromFloat(r.Price)))
		summary.UnitsSold += int64(r.UnitsSold)
		prices[i] = r.Price
		margins[i] = r.Price - r.Cost
		stores[r.Store] = struct{}{}
		products[r.Product] = struct{}{}

		day := domain.TruncateDay(r.Date)
		if summary.FirstDate.IsZero() || day.Before(summary.FirstDate) {
			summary.FirstDate = day
		}
		if day.After(summary.LastDate) {
			summary.LastDate = day
		}
	}

	summary.Revenue = revenue.Round(2).InexactFloat64()
	summary.AvgPrice = stat.Mean(prices, nil)
	summary.AvgMargin = stat.Mean(margins, nil)
	summary.Stores = len(stores)
	summary.Products = len(products)
	return summary
}
