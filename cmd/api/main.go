package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/cache"
	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/drive"
	"github.com/andresuchdata/inventory-analytics/internal/pipeline"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/andresuchdata/inventory-analytics/internal/repository/postgres"
	"github.com/andresuchdata/inventory-analytics/pkg/logger"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	log := logger.Component("drive-admin")

	ctx := context.Background()

	credentials, err := driveCredentials(cfg.Drive)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read Google Drive credentials")
	}

	driveService, err := drive.NewService(ctx, credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db.DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare schema")
	}

	ledgerCache, err := cache.NewLedgerCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("Ledger cache unavailable, imports will not invalidate it")
		ledgerCache = cache.NewNoopLedgerCache()
	}

	ingestRepo := repository.NewIngestRepository(db)

	importer := drive.NewImporter(driveService, ingestRepo, pipeline.DefaultConfig("drive-import"), cfg.Ledger.DataDir)
	importer.OnImported = ledgerCache.InvalidateAll

	r := mux.NewRouter()
	drive.NewHandler(driveService, importer).RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.AdminPort),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	log.Info().Str("addr", srv.Addr).Msg("Admin server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Admin server stopped")
	}
}

// driveCredentials prefers the configured key file and falls back to the
// GOOGLE_DRIVE_CREDENTIALS_JSON environment variable.
func driveCredentials(cfg config.DriveConfig) ([]byte, error) {
	if cfg.CredentialsFile != "" {
		return os.ReadFile(cfg.CredentialsFile)
	}
	if raw := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"); raw != "" {
		return []byte(raw), nil
	}
	return nil, fmt.Errorf("set DRIVE_CREDENTIALS_FILE or GOOGLE_DRIVE_CREDENTIALS_JSON")
}
