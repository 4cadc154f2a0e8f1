package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// EconomicOrderQuantity returns sqrt(2*D*S/H): the order size that minimizes
// holding plus ordering cost for demand D, fixed order cost S and unit holding cost H.
func EconomicOrderQuantity(demand, orderCost, holdingCost float64) (float64, error) {
	if err := requireFinite(demand, orderCost, holdingCost); err != nil {
		return 0, err
	}
	if holdingCost <= 0 {
		return 0, fmt.Errorf("%w (got %v)", ErrNonPositiveHoldingCost, holdingCost)
	}
	if demand < 0 || orderCost < 0 {
		return 0, fmt.Errorf("%w (demand=%v, order_cost=%v)", ErrNegativeInput, demand, orderCost)
	}
	return math.Sqrt(2 * demand * orderCost / holdingCost), nil
}

// ReorderPoint returns avgDemand*leadTime + serviceZ*stdDev*sqrt(leadTime).
func ReorderPoint(avgDemand, leadTime, stdDev, serviceZ float64) (float64, error) {
	if err := requireFinite(avgDemand, leadTime, stdDev, serviceZ); err != nil {
		return 0, err
	}
	if leadTime < 0 {
		return 0, fmt.Errorf("%w (got %v)", ErrNegativeLeadTime, leadTime)
	}
	return avgDemand*leadTime + serviceZ*stdDev*math.Sqrt(leadTime), nil
}

// CriticalRatio returns cu/(cu+co), the service level targeted by the newsvendor model.
func CriticalRatio(understockCost, overstockCost float64) (float64, error) {
	if err := requireFinite(understockCost, overstockCost); err != nil {
		return 0, err
	}
	sum := understockCost + overstockCost
	if sum <= 0 {
		return 0, fmt.Errorf("%w (cu=%v, co=%v)", ErrNonPositiveCostSum, understockCost, overstockCost)
	}
	ratio := understockCost / sum
	if ratio <= 0 || ratio >= 1 {
		return 0, fmt.Errorf("%w (got %v)", ErrCriticalRatioRange, ratio)
	}
	return ratio, nil
}

// NewsvendorQuantity returns the quantile of Normal(mu, sigma) at the critical ratio.
func NewsvendorQuantity(mu, sigma, understockCost, overstockCost float64) (float64, error) {
	if err := requireFinite(mu, sigma); err != nil {
		return 0, err
	}
	ratio, err := CriticalRatio(understockCost, overstockCost)
	if err != nil {
		return 0, err
	}
	if sigma <= 0 {
		return 0, fmt.Errorf("%w (got %v)", ErrNonPositiveSigma, sigma)
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Quantile(ratio), nil
}

func requireFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w (got %v)", ErrNonFinite, v)
		}
	}
	return nil
}
