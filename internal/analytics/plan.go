package analytics

import (
	"fmt"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PlanInventory derives EOQ, ROP and the newsvendor optimum from a daily demand
// series: D is the series total, mean and sample std describe daily demand.
//
// A constant series has no spread; the newsvendor optimum is then the mean
// itself and the density and profit curves are left empty.
func PlanInventory(series []domain.DemandPoint, params domain.InventoryParams) (domain.InventoryPlan, error) {
	if len(series) < 2 {
		return domain.InventoryPlan{}, fmt.Errorf("%w: need at least 2 demand points, got %d", ErrInsufficientData, len(series))
	}

	values := Values(series)
	plan := domain.InventoryPlan{
		Params:      params,
		TotalDemand: floats.Sum(values),
		MeanDemand:  stat.Mean(values, nil),
		StdDemand:   stat.StdDev(values, nil),
	}

	var err error
	if plan.EOQ, err = EconomicOrderQuantity(plan.TotalDemand, params.OrderCost, params.HoldingCost); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("eoq: %w", err)
	}
	if plan.EOQ > 0 {
		plan.AnnualCost = 2 * params.OrderCost * plan.TotalDemand / plan.EOQ * params.HoldingCost
		plan.OptimalCost = plan.EOQ/2*params.HoldingCost + plan.TotalDemand/plan.EOQ*params.OrderCost
	}
	if plan.EOQCurve, err = EOQCostCurve(plan.TotalDemand, params.OrderCost, params.HoldingCost, DefaultCurvePoints); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("eoq curve: %w", err)
	}

	if plan.ReorderPoint, err = ReorderPoint(plan.MeanDemand, params.LeadTimeDays, plan.StdDemand, params.ServiceZ); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("reorder point: %w", err)
	}

	if plan.CriticalRatio, err = CriticalRatio(params.UnderstockCost, params.OverstockCost); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("newsvendor: %w", err)
	}

	if plan.StdDemand == 0 {
		plan.NewsvendorQty = plan.MeanDemand
		plan.DemandDensity = []domain.CurvePoint{}
		plan.NewsvendorCurve = []domain.CurvePoint{}
		return plan, nil
	}

	if plan.NewsvendorQty, err = NewsvendorQuantity(plan.MeanDemand, plan.StdDemand, params.UnderstockCost, params.OverstockCost); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("newsvendor: %w", err)
	}
	if plan.DemandDensity, err = DemandDensityCurve(plan.MeanDemand, plan.StdDemand, DefaultDensityPoints); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("demand density: %w", err)
	}
	if plan.NewsvendorCurve, err = NewsvendorProfitCurve(plan.MeanDemand, plan.StdDemand, params.UnderstockCost, params.OverstockCost, DefaultCurvePoints); err != nil {
		return domain.InventoryPlan{}, fmt.Errorf("newsvendor curve: %w", err)
	}

	return plan, nil
}
