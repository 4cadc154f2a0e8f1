package domain

import "time"

// ABCClass is the value band of a product.
type ABCClass string

const (
	ClassA            ABCClass = "A"
	ClassB            ABCClass = "B"
	ClassC            ABCClass = "C"
	ClassUnclassified ABCClass = ""
)

// ABCRow is one product of an ABC classification, ordered by AnnualDollar descending.
type ABCRow struct {
	Product         string    `json:"product"`
	AnnualDollar    float64   `json:"annual_dollar"`
	CumulativeShare NullFloat `json:"cumulative_share"`
	Class           ABCClass  `json:"class"`
}

// ABCClassSummary aggregates ABC rows per class for the Pareto legend.
type ABCClassSummary struct {
	Class        ABCClass `json:"class"`
	Products     int      `json:"products"`
	AnnualDollar float64  `json:"annual_dollar"`
	ValueShare   float64  `json:"value_share"`
}

// BottleneckRow is the latest scored observation of a (store, product) pair.
// Field order is part of the output contract: StockoutRisk follows UnitsSold.
type BottleneckRow struct {
	Store          string    `json:"store"`
	Product        string    `json:"product"`
	Category       string    `json:"category"`
	Date           time.Time `json:"date"`
	UnitsSold      int       `json:"units_sold"`
	StockoutRisk   float64   `json:"stockout_risk"`
	RollingMean    float64   `json:"rolling_mean"`
	RollingStd     float64   `json:"rolling_std"`
	DemandTrend    float64   `json:"demand_trend"`
	NormDemand     float64   `json:"norm_demand"`
	NormVolatility float64   `json:"norm_volatility"`
	NormTrend      float64   `json:"norm_trend"`
}

// ForecastPoint pairs an observed value with its moving-average forecast.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Actual   float64   `json:"actual"`
	Forecast NullFloat `json:"forecast"`
	Error    NullFloat `json:"error"`
	AbsError NullFloat `json:"abs_error"`
	PctError NullFloat `json:"pct_error"`
}

// ForecastAccuracy holds the error metrics over the aligned, non-missing pairs.
type ForecastAccuracy struct {
	Pairs             int       `json:"pairs"`
	MAE               float64   `json:"mae"`
	RMSE              float64   `json:"rmse"`
	MAPE              float64   `json:"mape"`
	DirectionAccuracy NullFloat `json:"direction_accuracy"`
}

// ForecastResult is a full forecast run. Accuracy is nil when no pair is available.
type ForecastResult struct {
	Window   int               `json:"window"`
	Points   []ForecastPoint   `json:"points"`
	Accuracy *ForecastAccuracy `json:"accuracy"`
}

// KPISummary is the headline figures of a filtered ledger.
type KPISummary struct {
	Records   int       `json:"records"`
	Stores    int       `json:"stores"`
	Products  int       `json:"products"`
	Revenue   float64   `json:"revenue"`
	UnitsSold int64     `json:"units_sold"`
	AvgPrice  float64   `json:"avg_price"`
	AvgMargin float64   `json:"avg_margin"`
	FirstDate time.Time `json:"first_date,omitempty"`
	LastDate  time.Time `json:"last_date,omitempty"`
}

// InventoryParams are the what-if inputs chosen by the analyst.
type InventoryParams struct {
	OrderCost      float64 `json:"order_cost" yaml:"order_cost"`
	HoldingCost    float64 `json:"holding_cost" yaml:"holding_cost"`
	LeadTimeDays   float64 `json:"lead_time_days" yaml:"lead_time_days"`
	ServiceZ       float64 `json:"service_z" yaml:"service_z"`
	UnderstockCost float64 `json:"understock_cost" yaml:"understock_cost"`
	OverstockCost  float64 `json:"overstock_cost" yaml:"overstock_cost"`
}

// CostCurvePoint is one sample of the EOQ cost curve.
type CostCurvePoint struct {
	Quantity     float64 `json:"quantity"`
	HoldingCost  float64 `json:"holding_cost"`
	OrderingCost float64 `json:"ordering_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// CurvePoint is a generic (x, y) sample.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InventoryPlan bundles EOQ, ROP and newsvendor results for a demand series.
type InventoryPlan struct {
	Params          InventoryParams  `json:"params"`
	TotalDemand     float64          `json:"total_demand"`
	MeanDemand      float64          `json:"mean_demand"`
	StdDemand       float64          `json:"std_demand"`
	EOQ             float64          `json:"eoq"`
	AnnualCost      float64          `json:"annual_cost"`        // 2*S*D/EOQ*H, as the planning dashboard reports it
	OptimalCost     float64          `json:"optimal_total_cost"` // EOQ/2*H + D/EOQ*S at the optimum
	ReorderPoint    float64          `json:"reorder_point"`
	CriticalRatio   float64          `json:"critical_ratio"`
	NewsvendorQty   float64          `json:"newsvendor_qty"`
	EOQCurve        []CostCurvePoint `json:"eoq_curve"`
	DemandDensity   []CurvePoint     `json:"demand_density"`
	NewsvendorCurve []CurvePoint     `json:"newsvendor_curve"`
}

// Dashboard is every analysis over one filtered ledger.
// Nil sections mean the data was insufficient for that analysis.
type Dashboard struct {
	KPI         KPISummary        `json:"kpi"`
	Forecast    *ForecastResult   `json:"forecast"`
	ABC         []ABCRow          `json:"abc"`
	ABCSummary  []ABCClassSummary `json:"abc_summary"`
	Bottlenecks []BottleneckRow   `json:"bottlenecks"`
	Inventory   *InventoryPlan    `json:"inventory"`
}
