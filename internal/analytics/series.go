package analytics

import (
	"sort"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// DailyDemand sums units sold per date, ascending, one point per distinct date.
// Dates with no sales are not filled in.
func DailyDemand(records []domain.SalesRecord) []domain.DemandPoint {
	byDate := make(map[time.Time]float64)
	for _, r := range records {
		byDate[domain.TruncateDay(r.Date)] += float64(r.UnitsSold)
	}

	points := make([]domain.DemandPoint, 0, len(byDate))
	for date, units := range byDate {
		points = append(points, domain.DemandPoint{Date: date, Units: units})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// Values returns the demand values of a series in order.
func Values(points []domain.DemandPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Units
	}
	return out
}
