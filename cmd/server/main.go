package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/api"
	"github.com/andresuchdata/inventory-analytics/internal/cache"
	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/metrics"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/andresuchdata/inventory-analytics/internal/repository/postgres"
	"github.com/andresuchdata/inventory-analytics/internal/service"
	"github.com/andresuchdata/inventory-analytics/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, closeRepo, err := newLedgerRepository(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("source", cfg.Ledger.Source).Msg("Failed to open ledger")
	}
	defer closeRepo()

	ledgerCache, err := cache.NewLedgerCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Ledger cache unavailable, continuing without cache")
		ledgerCache = cache.NewNoopLedgerCache()
	}

	m := metrics.New()
	analyticsService := service.NewAnalyticsService(repo, ledgerCache, cfg.Analytics, m)

	router := api.NewRouter(&api.Services{
		AnalyticsService: analyticsService,
		Metrics:          m,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("ledger", cfg.Ledger.Source).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newLedgerRepository opens the configured ledger source and returns its cleanup.
func newLedgerRepository(cfg *config.Config) (repository.LedgerRepository, func(), error) {
	switch cfg.Ledger.Source {
	case "", "file":
		repo, err := repository.NewFileLedgerRepository(cfg.Ledger.Path)
		return repo, func() {}, err
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := postgres.EnsureSchema(context.Background(), db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewLedgerRepository(db.DB), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger source %q (want file or postgres)", cfg.Ledger.Source)
	}
}
