package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/inventory-analytics/internal/analytics"
	"github.com/andresuchdata/inventory-analytics/internal/cache"
	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/metrics"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService loads the filtered ledger and runs the analyses over it.
// It keeps no state between calls besides the raw-ledger cache.
type AnalyticsService struct {
	repo    repository.LedgerRepository
	cache   cache.LedgerCache
	cfg     config.AnalyticsConfig
	metrics *metrics.Metrics
}

func NewAnalyticsService(repo repository.LedgerRepository, cacheImpl cache.LedgerCache, cfg config.AnalyticsConfig, m *metrics.Metrics) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopLedgerCache()
	}
	return &AnalyticsService{repo: repo, cache: cacheImpl, cfg: cfg, metrics: m}
}

// DefaultParams returns the configured what-if inventory parameters.
func (s *AnalyticsService) DefaultParams() domain.InventoryParams {
	return s.cfg.InventoryParams()
}

// DefaultWindow returns the configured forecast window.
func (s *AnalyticsService) DefaultWindow() int {
	if s.cfg.ForecastWindow <= 0 {
		return analytics.DefaultForecastWindow
	}
	return s.cfg.ForecastWindow
}

func (s *AnalyticsService) riskScorer() *analytics.RiskScorer {
	cfg := analytics.DefaultRiskConfig()
	cfg.Window = s.cfg.RiskWindow
	cfg.MinPeriods = s.cfg.RiskMinPeriods
	cfg.Limit = s.cfg.RiskLimit
	return analytics.NewRiskScorer(cfg)
}

// LoadLedger returns the records matching filter, from cache when possible.
func (s *AnalyticsService) LoadLedger(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, error) {
	if records, ok, err := s.cache.GetRecords(ctx, filter); err == nil && ok {
		s.observeLoad(len(records), true)
		return records, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get records failed")
	}

	records, err := s.repo.FindRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s.observeLoad(len(records), false)

	if err := s.cache.SetRecords(ctx, filter, records); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set records failed")
	}

	return records, nil
}

func (s *AnalyticsService) Dimensions(ctx context.Context) (domain.LedgerDimensions, error) {
	return s.repo.Dimensions(ctx)
}

// InvalidateCache drops every cached ledger, e.g. after an import.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func (s *AnalyticsService) KPI(ctx context.Context, filter domain.LedgerFilter) (domain.KPISummary, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return domain.KPISummary{}, err
	}
	defer s.time("kpi")()
	return analytics.Summarize(records), nil
}

// Forecast runs the moving-average forecast over daily demand. A zero window
// selects the configured default.
func (s *AnalyticsService) Forecast(ctx context.Context, filter domain.LedgerFilter, window int) (domain.ForecastResult, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return domain.ForecastResult{}, err
	}
	return s.forecast(records, window)
}

func (s *AnalyticsService) forecast(records []domain.SalesRecord, window int) (domain.ForecastResult, error) {
	if window == 0 {
		window = s.DefaultWindow()
	}
	defer s.time("forecast")()
	return analytics.BuildForecast(analytics.DailyDemand(records), window)
}

func (s *AnalyticsService) ABC(ctx context.Context, filter domain.LedgerFilter) ([]domain.ABCRow, []domain.ABCClassSummary, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	rows, summary := s.abc(records)
	return rows, summary, nil
}

func (s *AnalyticsService) abc(records []domain.SalesRecord) ([]domain.ABCRow, []domain.ABCClassSummary) {
	defer s.time("abc")()
	rows := analytics.ClassifyABC(records)
	return rows, analytics.ABCSummary(rows)
}

func (s *AnalyticsService) Bottlenecks(ctx context.Context, filter domain.LedgerFilter) ([]domain.BottleneckRow, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.bottlenecks(records), nil
}

func (s *AnalyticsService) bottlenecks(records []domain.SalesRecord) []domain.BottleneckRow {
	defer s.time("bottlenecks")()
	return s.riskScorer().Score(records)
}

func (s *AnalyticsService) Inventory(ctx context.Context, filter domain.LedgerFilter, params domain.InventoryParams) (domain.InventoryPlan, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return domain.InventoryPlan{}, err
	}
	return s.inventory(records, params)
}

func (s *AnalyticsService) inventory(records []domain.SalesRecord, params domain.InventoryParams) (domain.InventoryPlan, error) {
	defer s.time("inventory")()
	return analytics.PlanInventory(analytics.DailyDemand(records), params)
}

// Dashboard loads the ledger once and runs every analysis concurrently.
// Inventory is nil when the ledger is too sparse for it.
func (s *AnalyticsService) Dashboard(ctx context.Context, filter domain.LedgerFilter, window int, params domain.InventoryParams) (*domain.Dashboard, error) {
	records, err := s.LoadLedger(ctx, filter)
	if err != nil {
		return nil, err
	}

	var (
		dash domain.Dashboard
		g    errgroup.Group
	)

	g.Go(func() error {
		dash.KPI = analytics.Summarize(records)
		return nil
	})
	g.Go(func() error {
		res, err := s.forecast(records, window)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		dash.Forecast = &res
		return nil
	})
	g.Go(func() error {
		dash.ABC, dash.ABCSummary = s.abc(records)
		return nil
	})
	g.Go(func() error {
		dash.Bottlenecks = s.bottlenecks(records)
		return nil
	})
	g.Go(func() error {
		plan, err := s.inventory(records, params)
		switch {
		case err == nil:
			dash.Inventory = &plan
		case errors.Is(err, analytics.ErrInsufficientData):
			// too few demand points; section stays empty
		default:
			return fmt.Errorf("inventory: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

func (s *AnalyticsService) time(op string) func() {
	if s.metrics == nil {
		return func() {}
	}
	return s.metrics.TimeAnalytics(op)
}

func (s *AnalyticsService) observeLoad(n int, hit bool) {
	if s.metrics != nil {
		s.metrics.ObserveLedgerLoad(n, hit)
	}
}
