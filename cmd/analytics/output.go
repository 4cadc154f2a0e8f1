package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// report is one command result: value is encoded as-is for json, the
// header/rows pair feeds table and csv output. footer lines only show in tables.
type report struct {
	value  any
	header []string
	rows   [][]string
	footer []string
}

func render(w io.Writer, format string, r report) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.value)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(r.header); err != nil {
			return err
		}
		if err := cw.WriteAll(r.rows); err != nil {
			return err
		}
		return cw.Error()
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(r.header, "\t"))
		for _, row := range r.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, line := range r.footer {
			fmt.Fprintln(w, line)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func nullNum(v domain.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return num(v.Value)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func kpiReport(s domain.KPISummary) report {
	return report{
		value:  s,
		header: []string{"metric", "value"},
		rows: [][]string{
			{"records", strconv.Itoa(s.Records)},
			{"stores", strconv.Itoa(s.Stores)},
			{"products", strconv.Itoa(s.Products)},
			{"revenue", strconv.FormatFloat(s.Revenue, 'f', 2, 64)},
			{"units_sold", strconv.FormatInt(s.UnitsSold, 10)},
			{"avg_price", num(s.AvgPrice)},
			{"avg_margin", num(s.AvgMargin)},
			{"first_date", day(s.FirstDate)},
			{"last_date", day(s.LastDate)},
		},
	}
}

func forecastReport(res domain.ForecastResult) report {
	r := report{
		value:  res,
		header: []string{"date", "actual", "forecast", "error", "abs_error", "pct_error"},
	}
	for _, p := range res.Points {
		r.rows = append(r.rows, []string{day(p.Date), num(p.Actual), nullNum(p.Forecast), nullNum(p.Error), nullNum(p.AbsError), nullNum(p.PctError)})
	}
	if acc := res.Accuracy; acc != nil {
		r.footer = []string{
			fmt.Sprintf("window=%d pairs=%d mae=%s rmse=%s mape=%s%%", res.Window, acc.Pairs, num(acc.MAE), num(acc.RMSE), num(acc.MAPE)),
			fmt.Sprintf("direction_accuracy=%s", orInsufficient(nullNum(acc.DirectionAccuracy))),
		}
	} else {
		r.footer = []string{"accuracy: insufficient data"}
	}
	return r
}

func abcReport(rows []domain.ABCRow, summary []domain.ABCClassSummary) report {
	r := report{
		value:  map[string]any{"items": rows, "summary": summary},
		header: []string{"product", "annual_dollar", "cumulative_share", "class"},
	}
	for _, row := range rows {
		class := string(row.Class)
		if row.Class == domain.ClassUnclassified {
			class = "-"
		}
		r.rows = append(r.rows, []string{row.Product, strconv.FormatFloat(row.AnnualDollar, 'f', 2, 64), nullNum(row.CumulativeShare), class})
	}
	for _, s := range summary {
		r.footer = append(r.footer, fmt.Sprintf("class %s: %d products, %.1f%% of value", s.Class, s.Products, s.ValueShare*100))
	}
	return r
}

func bottleneckReport(rows []domain.BottleneckRow) report {
	r := report{
		value:  rows,
		header: []string{"store", "product", "category", "date", "units_sold", "stockout_risk", "rolling_mean", "rolling_std", "demand_trend"},
	}
	for _, b := range rows {
		r.rows = append(r.rows, []string{b.Store, b.Product, b.Category, day(b.Date), strconv.Itoa(b.UnitsSold), num(b.StockoutRisk), num(b.RollingMean), num(b.RollingStd), num(b.DemandTrend)})
	}
	return r
}

func inventoryReport(p domain.InventoryPlan) report {
	return report{
		value:  p,
		header: []string{"metric", "value"},
		rows: [][]string{
			{"total_demand", num(p.TotalDemand)},
			{"mean_demand", num(p.MeanDemand)},
			{"std_demand", num(p.StdDemand)},
			{"eoq", num(p.EOQ)},
			{"annual_cost", num(p.AnnualCost)},
			{"optimal_total_cost", num(p.OptimalCost)},
			{"reorder_point", num(p.ReorderPoint)},
			{"critical_ratio", num(p.CriticalRatio)},
			{"newsvendor_qty", num(p.NewsvendorQty)},
		},
	}
}

func dimensionsReport(d domain.LedgerDimensions) report {
	return report{
		value:  d,
		header: []string{"dimension", "values"},
		rows: [][]string{
			{"stores", strings.Join(d.Stores, ",")},
			{"categories", strings.Join(d.Categories, ",")},
			{"products", strings.Join(d.Products, ",")},
			{"dates", day(d.MinDate) + ".." + day(d.MaxDate)},
		},
	}
}

func scalarReport(name string, v float64) report {
	return report{
		value:  map[string]float64{name: v},
		header: []string{name},
		rows:   [][]string{{num(v)}},
	}
}

func orInsufficient(s string) string {
	if s == "" {
		return "insufficient data"
	}
	return s
}
