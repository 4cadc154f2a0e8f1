package analytics

import (
	"testing"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valued(product string, units int, cost float64) domain.SalesRecord {
	return domain.NewSalesRecord(day(0), "S1", product, "Grocery", units, cost*1.5, cost)
}

func TestClassForShare(t *testing.T) {
	tests := []struct {
		share float64
		want  domain.ABCClass
	}{
		{0, domain.ClassA},
		{0.3, domain.ClassA},
		{0.5, domain.ClassA},
		{0.5000001, domain.ClassB},
		{0.75, domain.ClassB},
		{0.7500001, domain.ClassC},
		{1, domain.ClassC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassForShare(tt.share), "share %v", tt.share)
	}
}

func TestClassifyABCTwoProducts(t *testing.T) {
	rows := ClassifyABC([]domain.SalesRecord{
		valued("P2", 20, 10),
		valued("P1", 40, 10),
		valued("P1", 40, 10),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "P1", rows[0].Product)
	assert.Equal(t, 800.0, rows[0].AnnualDollar)
	assert.Equal(t, domain.Float(0.8), rows[0].CumulativeShare)
	assert.Equal(t, domain.ClassC, rows[0].Class)

	assert.Equal(t, "P2", rows[1].Product)
	assert.Equal(t, domain.Float(1), rows[1].CumulativeShare)
	assert.Equal(t, domain.ClassC, rows[1].Class)
}

func TestClassifyABCBoundaries(t *testing.T) {
	rows := ClassifyABC([]domain.SalesRecord{
		valued("A1", 50, 10),
		valued("B1", 25, 10),
		valued("C1", 25, 4),
		valued("C2", 15, 10),
	})

	require.Len(t, rows, 4)
	// 500 / 1000, 750 / 1000, then the 100/150 products ordered by value
	assert.Equal(t, []string{"A1", "B1", "C2", "C1"}, []string{rows[0].Product, rows[1].Product, rows[2].Product, rows[3].Product})
	assert.Equal(t, domain.ClassA, rows[0].Class)
	assert.Equal(t, domain.ClassB, rows[1].Class)
	assert.Equal(t, domain.ClassC, rows[2].Class)
	assert.Equal(t, domain.ClassC, rows[3].Class)
	assert.Equal(t, 0.5, rows[0].CumulativeShare.Value)
	assert.Equal(t, 0.75, rows[1].CumulativeShare.Value)
}

func TestClassifyABCShareIsMonotone(t *testing.T) {
	var records []domain.SalesRecord
	for i, units := range []int{7, 3, 19, 3, 44, 1, 12, 0, 9} {
		records = append(records, valued(string(rune('a'+i)), units, 2.35))
	}

	rows := ClassifyABC(records)
	require.Len(t, rows, 9)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i].CumulativeShare.Value, rows[i-1].CumulativeShare.Value)
		assert.LessOrEqual(t, rows[i].AnnualDollar, rows[i-1].AnnualDollar)
	}
	assert.Equal(t, 1.0, rows[len(rows)-1].CumulativeShare.Value)
}

func TestClassifyABCTieBreak(t *testing.T) {
	rows := ClassifyABC([]domain.SalesRecord{
		valued("zeta", 10, 1),
		valued("alpha", 10, 1),
		valued("mid", 10, 1),
	})
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha", rows[0].Product)
	assert.Equal(t, "mid", rows[1].Product)
	assert.Equal(t, "zeta", rows[2].Product)
}

func TestClassifyABCZeroTotal(t *testing.T) {
	rows := ClassifyABC([]domain.SalesRecord{valued("P1", 0, 3), valued("P2", 0, 5)})
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.CumulativeShare.Valid)
		assert.Equal(t, domain.ClassUnclassified, r.Class)
	}

	empty := ClassifyABC(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestABCSummary(t *testing.T) {
	rows := ClassifyABC([]domain.SalesRecord{
		valued("A1", 50, 10),
		valued("B1", 25, 10),
		valued("C1", 25, 4),
		valued("C2", 15, 10),
	})

	summary := ABCSummary(rows)
	require.Len(t, summary, 3)
	assert.Equal(t, domain.ABCClassSummary{Class: domain.ClassA, Products: 1, AnnualDollar: 500, ValueShare: 0.5}, summary[0])
	assert.Equal(t, 1, summary[1].Products)
	assert.Equal(t, 2, summary[2].Products)
	assert.InDelta(t, 0.25, summary[2].ValueShare, 1e-12)

	for _, s := range ABCSummary(nil) {
		assert.Zero(t, s.Products)
	}
}
