package ledger

import (
	"sort"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// Apply returns the records matching filter. The input is never modified.
func Apply(records []domain.SalesRecord, filter domain.LedgerFilter) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Describe collects the sorted distinct stores, categories and products and the date span.
func Describe(records []domain.SalesRecord) domain.LedgerDimensions {
	stores := make(map[string]struct{})
	categories := make(map[string]struct{})
	products := make(map[string]struct{})

	var dims domain.LedgerDimensions
	for _, r := range records {
		stores[r.Store] = struct{}{}
		products[r.Product] = struct{}{}
		if r.Category != "" {
			categories[r.Category] = struct{}{}
		}
		if dims.MinDate.IsZero() || r.Date.Before(dims.MinDate) {
			dims.MinDate = r.Date
		}
		if r.Date.After(dims.MaxDate) {
			dims.MaxDate = r.Date
		}
	}
	dims.Stores = sortedKeys(stores)
	dims.Categories = sortedKeys(categories)
	dims.Products = sortedKeys(products)
	return dims
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
