package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/analytics"
	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/andresuchdata/inventory-analytics/internal/service"
	"github.com/andresuchdata/inventory-analytics/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Log.Level)

	app := newApp(cfg.Analytics, cfg.Ledger.Path, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics failed")
	}
}

type ledgerAction func(c *cli.Context, svc *service.AnalyticsService, filter domain.LedgerFilter) (report, error)

func newApp(base config.AnalyticsConfig, ledgerPath string, out io.Writer) *cli.App {
	// withLedger opens --ledger, applies --scenario and per-command overrides,
	// and renders the action's report in --format.
	withLedger := func(action ledgerAction) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := analyticsConfig(c, base)
			if err != nil {
				return err
			}
			filter, err := ledgerFilter(c)
			if err != nil {
				return err
			}
			repo, err := repository.NewFileLedgerRepository(c.String("ledger"))
			if err != nil {
				return err
			}

			svc := service.NewAnalyticsService(repo, nil, cfg, nil)
			r, err := action(c, svc, filter)
			if err != nil {
				return err
			}
			return render(c.App.Writer, c.String("format"), r)
		}
	}

	scalar := func(compute func(c *cli.Context) (report, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			r, err := compute(c)
			if err != nil {
				return err
			}
			return render(c.App.Writer, c.String("format"), r)
		}
	}

	return &cli.App{
		Name:   "analytics",
		Usage:  "Run inventory analytics over a sales ledger file",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ledger",
				Aliases: []string{"l"},
				Usage:   "Sales ledger CSV or XLSX file",
				Value:   ledgerPath,
				EnvVars: []string{"LEDGER_PATH"},
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: table, csv or json",
				Value: "table",
			},
			&cli.StringFlag{
				Name:  "scenario",
				Usage: "YAML what-if scenario overriding the configured parameters",
			},
			&cli.StringSliceFlag{Name: "stores", Usage: "Only these stores"},
			&cli.StringSliceFlag{Name: "categories", Usage: "Only these categories"},
			&cli.StringSliceFlag{Name: "products", Usage: "Only these products"},
			&cli.StringFlag{Name: "from", Usage: "First day (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "Last day (YYYY-MM-DD)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "kpi",
				Usage: "Revenue, units, average price and margin",
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					s, err := svc.KPI(c.Context, f)
					return kpiReport(s), err
				}),
			},
			{
				Name:  "dimensions",
				Usage: "Distinct stores, categories, products and the date range",
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					d, err := svc.Dimensions(c.Context)
					return dimensionsReport(d), err
				}),
			},
			{
				Name:  "forecast",
				Usage: "Moving-average forecast of daily demand with accuracy metrics",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "window", Aliases: []string{"w"}, Usage: "Moving-average window in days"},
				},
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					res, err := svc.Forecast(c.Context, f, c.Int("window"))
					return forecastReport(res), err
				}),
			},
			{
				Name:  "abc",
				Usage: "ABC classification of products by annual dollar usage",
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					rows, summary, err := svc.ABC(c.Context, f)
					return abcReport(rows, summary), err
				}),
			},
			{
				Name:  "bottlenecks",
				Usage: "Store/product pairs ranked by stockout risk",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Rows to keep after ranking"},
				},
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					rows, err := svc.Bottlenecks(c.Context, f)
					return bottleneckReport(rows), err
				}),
			},
			{
				Name:  "inventory",
				Usage: "EOQ, reorder point and newsvendor quantity for the filtered demand",
				Flags: paramFlags(),
				Action: withLedger(func(c *cli.Context, svc *service.AnalyticsService, f domain.LedgerFilter) (report, error) {
					plan, err := svc.Inventory(c.Context, f, svc.DefaultParams())
					return inventoryReport(plan), err
				}),
			},
			{
				Name:  "eoq",
				Usage: "Economic order quantity sqrt(2DS/H)",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "demand", Usage: "Demand over the period (D)", Required: true},
					&cli.Float64Flag{Name: "order-cost", Usage: "Fixed cost per order (S)", Required: true},
					&cli.Float64Flag{Name: "holding-cost", Usage: "Holding cost per unit (H)", Required: true},
				},
				Action: scalar(func(c *cli.Context) (report, error) {
					q, err := analytics.EconomicOrderQuantity(c.Float64("demand"), c.Float64("order-cost"), c.Float64("holding-cost"))
					return scalarReport("eoq", q), err
				}),
			},
			{
				Name:  "rop",
				Usage: "Reorder point d*L + z*sigma*sqrt(L)",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "avg-demand", Usage: "Average daily demand", Required: true},
					&cli.Float64Flag{Name: "lead-time", Usage: "Lead time in days", Required: true},
					&cli.Float64Flag{Name: "std-dev", Usage: "Daily demand standard deviation", Required: true},
					&cli.Float64Flag{Name: "service-z", Usage: "Service level z-score", Value: 1.65},
				},
				Action: scalar(func(c *cli.Context) (report, error) {
					rop, err := analytics.ReorderPoint(c.Float64("avg-demand"), c.Float64("lead-time"), c.Float64("std-dev"), c.Float64("service-z"))
					return scalarReport("reorder_point", rop), err
				}),
			},
			{
				Name:  "newsvendor",
				Usage: "Newsvendor optimal quantity for Normal(mu, sigma) demand",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "mu", Usage: "Mean demand", Required: true},
					&cli.Float64Flag{Name: "sigma", Usage: "Demand standard deviation", Required: true},
					&cli.Float64Flag{Name: "understock-cost", Usage: "Cost per unit short (cu)", Required: true},
					&cli.Float64Flag{Name: "overstock-cost", Usage: "Cost per unit left over (co)", Required: true},
				},
				Action: scalar(func(c *cli.Context) (report, error) {
					cu, co := c.Float64("understock-cost"), c.Float64("overstock-cost")
					ratio, err := analytics.CriticalRatio(cu, co)
					if err != nil {
						return report{}, err
					}
					q, err := analytics.NewsvendorQuantity(c.Float64("mu"), c.Float64("sigma"), cu, co)
					if err != nil {
						return report{}, err
					}
					return report{
						value:  map[string]float64{"critical_ratio": ratio, "quantity": q},
						header: []string{"critical_ratio", "quantity"},
						rows:   [][]string{{num(ratio), num(q)}},
					}, nil
				}),
			},
		},
	}
}

func paramFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "order-cost", Usage: "Fixed cost per order"},
		&cli.Float64Flag{Name: "holding-cost", Usage: "Holding cost per unit"},
		&cli.Float64Flag{Name: "lead-time", Usage: "Lead time in days"},
		&cli.Float64Flag{Name: "service-z", Usage: "Service level z-score"},
		&cli.Float64Flag{Name: "understock-cost", Usage: "Newsvendor understock cost"},
		&cli.Float64Flag{Name: "overstock-cost", Usage: "Newsvendor overstock cost"},
	}
}

// analyticsConfig layers the scenario file and then explicit flags over base.
func analyticsConfig(c *cli.Context, base config.AnalyticsConfig) (config.AnalyticsConfig, error) {
	cfg := base
	if path := c.String("scenario"); path != "" {
		scenario, err := config.LoadScenario(path)
		if err != nil {
			return cfg, err
		}
		cfg = scenario.Apply(cfg)
	}

	if c.IsSet("limit") {
		cfg.RiskLimit = c.Int("limit")
	}
	overrides := map[string]*float64{
		"order-cost":      &cfg.OrderCost,
		"holding-cost":    &cfg.HoldingCost,
		"lead-time":       &cfg.LeadTimeDays,
		"service-z":       &cfg.ServiceZ,
		"understock-cost": &cfg.UnderstockCost,
		"overstock-cost":  &cfg.OverstockCost,
	}
	for name, dst := range overrides {
		if c.IsSet(name) {
			*dst = c.Float64(name)
		}
	}
	return cfg, nil
}

func ledgerFilter(c *cli.Context) (domain.LedgerFilter, error) {
	filter := domain.LedgerFilter{
		Stores:     c.StringSlice("stores"),
		Categories: c.StringSlice("categories"),
		Products:   c.StringSlice("products"),
	}
	var err error
	if filter.From, err = parseDay(c.String("from")); err != nil {
		return filter, fmt.Errorf("--from: %w", err)
	}
	if filter.To, err = parseDay(c.String("to")); err != nil {
		return filter, fmt.Errorf("--to: %w", err)
	}
	return filter, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
