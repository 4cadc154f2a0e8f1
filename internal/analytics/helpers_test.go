package analytics

import (
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func rec(n int, store, product string, units int) domain.SalesRecord {
	return domain.NewSalesRecord(day(n), store, product, "Electronics", units, 20, 12)
}

func nullValues(in []domain.NullFloat) []any {
	out := make([]any, len(in))
	for i, v := range in {
		if v.Valid {
			out[i] = v.Value
		}
	}
	return out
}
