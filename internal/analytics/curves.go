package analytics

import (
	"math"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCurvePoints is the sample count of the EOQ and newsvendor curves.
const DefaultCurvePoints = 200

// DefaultDensityPoints is the sample count of the demand density curve.
const DefaultDensityPoints = 100

// Linspace returns n evenly spaced samples over [start, stop], both ends included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// EOQCostCurve samples holding (Q/2*H), ordering (D/Q*S) and total cost from
// max(1, 0.3*EOQ) to 2*EOQ. Zero demand or order cost has no curve.
func EOQCostCurve(demand, orderCost, holdingCost float64, points int) ([]domain.CostCurvePoint, error) {
	eoq, err := EconomicOrderQuantity(demand, orderCost, holdingCost)
	if err != nil {
		return nil, err
	}
	if eoq == 0 {
		return []domain.CostCurvePoint{}, nil
	}

	qs := Linspace(math.Max(1, eoq*0.3), eoq*2, points)
	out := make([]domain.CostCurvePoint, len(qs))
	for i, q := range qs {
		holding := q / 2 * holdingCost
		ordering := demand / q * orderCost
		out[i] = domain.CostCurvePoint{
			Quantity:     q,
			HoldingCost:  holding,
			OrderingCost: ordering,
			TotalCost:    holding + ordering,
		}
	}
	return out, nil
}

// DemandDensityCurve samples the Normal(mean, std) density over [0, mean+3*std].
func DemandDensityCurve(mean, std float64, points int) ([]domain.CurvePoint, error) {
	if err := requireFinite(mean, std); err != nil {
		return nil, err
	}
	if std <= 0 {
		return nil, ErrNonPositiveSigma
	}

	dist := distuv.Normal{Mu: mean, Sigma: std}
	xs := Linspace(0, mean+3*std, points)
	out := make([]domain.CurvePoint, len(xs))
	for i, x := range xs {
		out[i] = domain.CurvePoint{X: x, Y: dist.Prob(x)}
	}
	return out, nil
}

// NewsvendorProfitCurve samples the dashboard's profit function over
// [mu-3*sigma, mu+3*sigma]:
//
//	profit = sold                                      if q <= sold
//	profit = sold - leftover*co - (q - sold)*cu        otherwise
//
// with sold = min(q, mu) and leftover = max(q-mu, 0).
func NewsvendorProfitCurve(mu, sigma, understockCost, overstockCost float64, points int) ([]domain.CurvePoint, error) {
	if err := requireFinite(mu, sigma, understockCost, overstockCost); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return nil, ErrNonPositiveSigma
	}

	qs := Linspace(mu-3*sigma, mu+3*sigma, points)
	out := make([]domain.CurvePoint, len(qs))
	for i, q := range qs {
		sold := math.Min(q, mu)
		leftover := math.Max(q-mu, 0)
		profit := sold
		if q > sold {
			profit = sold - leftover*overstockCost - (q-sold)*understockCost
		}
		out[i] = domain.CurvePoint{X: q, Y: profit}
	}
	return out, nil
}
