package analytics

import (
	"sort"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// Upper bounds (inclusive) of the A and B cumulative-share bands.
const (
	ClassAUpperBound = 0.5
	ClassBUpperBound = 0.75
)

// ClassForShare maps a cumulative share to its band: [0, 0.5] A, (0.5, 0.75] B, above C.
func ClassForShare(share float64) domain.ABCClass {
	switch {
	case share <= ClassAUpperBound:
		return domain.ClassA
	case share <= ClassBUpperBound:
		return domain.ClassB
	default:
		return domain.ClassC
	}
}

// ClassifyABC values each product at sum(units_sold * cost), ranks products by
// that value (ties by product id) and bands them on cumulative share.
//
// When the total value is not positive the share is undefined: rows keep their
// value but carry a missing share and ClassUnclassified.
func ClassifyABC(records []domain.SalesRecord) []domain.ABCRow {
	totals := make(map[string]decimal.Decimal)
	products := make([]string, 0)
	for _, r := range records {
		value := decimal.NewFromInt(int64(r.UnitsSold)).Mul(decimal.NewFromFloat(r.Cost))
		current, seen := totals[r.Product]
		if !seen {
			products = append(products, r.Product)
		}
		totals[r.Product] = current.Add(value)
	}

	sort.Slice(products, func(i, j int) bool {
		if c := totals[products[i]].Cmp(totals[products[j]]); c != 0 {
			return c > 0
		}
		return products[i] < products[j]
	})

	grand := decimal.Zero
	for _, p := range products {
		grand = grand.Add(totals[p])
	}

	rows := make([]domain.ABCRow, 0, len(products))
	cumulative := decimal.Zero
	for _, p := range products {
		cumulative = cumulative.Add(totals[p])
		row := domain.ABCRow{
			Product:      p,
			AnnualDollar: totals[p].InexactFloat64(),
		}
		if grand.IsPositive() {
			share := cumulative.Div(grand).InexactFloat64()
			row.CumulativeShare = domain.Float(share)
			row.Class = ClassForShare(share)
		}
		rows = append(rows, row)
	}
	return rows
}

// ABCSummary totals the rows of each class, in A, B, C order.
// Unclassified rows are left out.
func ABCSummary(rows []domain.ABCRow) []domain.ABCClassSummary {
	classes := []domain.ABCClass{domain.ClassA, domain.ClassB, domain.ClassC}
	byClass := make(map[domain.ABCClass]*domain.ABCClassSummary, len(classes))
	for _, c := range classes {
		byClass[c] = &domain.ABCClassSummary{Class: c}
	}

	var total float64
	for _, r := range rows {
		s, ok := byClass[r.Class]
		if !ok {
			continue
		}
		s.Products++
		s.AnnualDollar += r.AnnualDollar
		total += r.AnnualDollar
	}

	out := make([]domain.ABCClassSummary, 0, len(classes))
	for _, c := range classes {
		s := *byClass[c]
		if total > 0 {
			s.ValueShare = s.AnnualDollar / total
		}
		out = append(out, s)
	}
	return out
}
