package analytics

import (
	"testing"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []domain.SalesRecord{
		domain.NewSalesRecord(day(3), "S1", "P1", "Toys", 3, 10.10, 6),
		domain.NewSalesRecord(day(1), "S2", "P1", "Toys", 2, 20, 12),
		domain.NewSalesRecord(day(2), "S1", "P2", "Toys", 0, 30, 18),
	}

	got := Summarize(records)
	assert.Equal(t, 3, got.Records)
	assert.Equal(t, 2, got.Stores)
	assert.Equal(t, 2, got.Products)
	assert.Equal(t, int64(5), got.UnitsSold)
	assert.Equal(t, 70.3, got.Revenue)
	assert.InDelta(t, 20.0333333, got.AvgPrice, 1e-6)
	assert.InDelta(t, (4.1+8+12)/3, got.AvgMargin, 1e-9)
	assert.Equal(t, day(1), got.FirstDate)
	assert.Equal(t, day(3), got.LastDate)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, domain.KPISummary{}, Summarize(nil))
}
