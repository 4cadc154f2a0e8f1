package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/drive"
	"github.com/andresuchdata/inventory-analytics/internal/ledger"
	"github.com/andresuchdata/inventory-analytics/internal/pipeline"
	"github.com/andresuchdata/inventory-analytics/internal/repository/postgres"
	"github.com/andresuchdata/inventory-analytics/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory holding ledger CSV/XLSX files",
		Value:   "./data",
		EnvVars: []string{"LEDGER_DATA_DIR"},
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "workers", Usage: "Concurrent file parsers", Value: 4},
		&cli.IntFlag{Name: "batch-size", Usage: "Records per COPY batch", Value: 5000},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seed",
		Usage: "Generate, move and load sales ledgers",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write a reproducible synthetic sales ledger (CSV or XLSX by extension)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "Output file", Value: "./data/sales_data.csv"},
					&cli.Int64Flag{Name: "seed", Usage: "Random seed", Value: 42},
					&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD)", Value: "2024-01-01"},
					&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD)", Value: "2025-12-31"},
					&cli.StringSliceFlag{Name: "stores", Usage: "Store names"},
					&cli.IntFlag{Name: "products", Usage: "Number of products P1..Pn", Value: 20},
				},
				Action: runGenerate,
			},
			{
				Name:      "load",
				Usage:     "Bulk load ledger files into Postgres",
				ArgsUsage: "[files...]",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
					&cli.BoolFlag{Name: "truncate", Usage: "Empty sales_records before loading"},
				}, pipelineFlags()...),
				Action: runLoad,
			},
			{
				Name:      "push",
				Usage:     "Upload ledger files to object storage",
				ArgsUsage: "[files...]",
				Flags:     append(storageFlags(), newDataDirFlag()),
				Action:    runPush,
			},
			{
				Name:  "pull",
				Usage: "Download ledger files from object storage",
				Flags: append(storageFlags(),
					newDataDirFlag(),
					&cli.StringFlag{Name: "key", Usage: "Download only this object"},
				),
				Action: runPull,
			},
			{
				Name:  "drive",
				Usage: "Import the ledger files of a Google Drive folder into Postgres",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "folder-id", EnvVars: []string{"DRIVE_FOLDER_ID"}},
					&cli.StringFlag{Name: "folder-path", Usage: "Slash separated folder path, used when folder-id is empty", EnvVars: []string{"DRIVE_FOLDER_PATH"}},
					&cli.StringFlag{Name: "credentials-file", EnvVars: []string{"DRIVE_CREDENTIALS_FILE"}},
					&cli.StringFlag{Name: "work-dir", Usage: "Scratch directory for downloads", Value: "./data/tmp"},
				}, pipelineFlags()...),
				Action: runDrive,
			},
		},
	}
}

func runGenerate(c *cli.Context) error {
	cfg := ledger.DefaultGeneratorConfig()
	cfg.Seed = c.Int64("seed")

	var err error
	if cfg.Start, err = time.Parse(domain.DateLayout, c.String("start")); err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	if cfg.End, err = time.Parse(domain.DateLayout, c.String("end")); err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	if stores := c.StringSlice("stores"); len(stores) > 0 {
		cfg.Stores = stores
	}
	if n := c.Int("products"); n > 0 {
		cfg.Products = make([]string, n)
		for i := range cfg.Products {
			cfg.Products[i] = fmt.Sprintf("P%d", i+1)
		}
	}

	gen, err := ledger.NewGenerator(cfg)
	if err != nil {
		return err
	}
	records := gen.Generate()

	out := c.String("out")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := writeLedger(out, records); err != nil {
		return err
	}

	logger.Log.Info().Str("file", out).Int("records", len(records)).Msg("ledger generated")
	return nil
}

func writeLedger(path string, records []domain.SalesRecord) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ledger.WriteXLSX(path, records)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		return ledger.WriteCSV(f, records)
	default:
		return fmt.Errorf("%w: %s", ledger.ErrUnsupportedFormat, path)
	}
}

func runLoad(c *cli.Context) error {
	ctx := c.Context
	files, err := inputFiles(c)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Log.Warn().Str("data_dir", c.String("data-dir")).Msg("no ledger files to load")
		return nil
	}

	loader, err := openBulkLoader(ctx, c.String("db-url"))
	if err != nil {
		return err
	}
	defer loader.Close()

	if c.Bool("truncate") {
		if err := loader.Truncate(ctx); err != nil {
			return err
		}
	}

	report, err := pipeline.NewOrchestrator(pipelineConfig(c, "seed-load"), loader).Run(ctx, files)
	logReport(report)
	return err
}

func runPush(c *cli.Context) error {
	sync, err := newLedgerSync(c)
	if err != nil {
		return err
	}
	files, err := inputFiles(c)
	if err != nil {
		return err
	}

	keys, err := sync.push(c.Context, c.String("prefix"), files)
	if err != nil {
		return err
	}
	logger.Log.Info().Strs("keys", keys).Msg("ledger files uploaded")
	return nil
}

func runPull(c *cli.Context) error {
	sync, err := newLedgerSync(c)
	if err != nil {
		return err
	}

	paths, err := sync.pull(c.Context, c.String("prefix"), c.String("key"))
	if err != nil {
		return err
	}
	logger.Log.Info().Strs("files", paths).Msg("ledger files downloaded")
	return nil
}

func runDrive(c *cli.Context) error {
	ctx := c.Context

	credsPath := c.String("credentials-file")
	var creds []byte
	if credsPath != "" {
		var err error
		if creds, err = os.ReadFile(credsPath); err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
	} else if raw := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"); strings.TrimSpace(raw) != "" {
		creds = []byte(raw)
	} else {
		return fmt.Errorf("credentials-file or GOOGLE_DRIVE_CREDENTIALS_JSON is required")
	}

	driveSvc, err := drive.NewService(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to create Drive service: %w", err)
	}

	folderID := c.String("folder-id")
	if folderID == "" {
		path := c.String("folder-path")
		if path == "" {
			return fmt.Errorf("folder-id or folder-path is required")
		}
		if folderID, err = driveSvc.FindFolderByPath(ctx, path); err != nil {
			return err
		}
	}

	loader, err := openBulkLoader(ctx, c.String("db-url"))
	if err != nil {
		return err
	}
	defer loader.Close()

	importer := drive.NewImporter(driveSvc, loader, pipelineConfig(c, "seed-drive"), c.String("work-dir"))
	logger.Log.Info().Str("folder_id", folderID).Msg("importing Drive folder")
	report, err := importer.ImportFolder(ctx, folderID)
	logReport(report)
	return err
}

// openBulkLoader bootstraps the schema and opens the COPY loader.
func openBulkLoader(ctx context.Context, dbURL string) (*postgres.BulkLoader, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return postgres.NewBulkLoader(ctx, dbURL)
}

func pipelineConfig(c *cli.Context, name string) pipeline.Config {
	cfg := pipeline.DefaultConfig(name)
	if n := c.Int("workers"); n > 0 {
		cfg.WorkerCount = n
	}
	if n := c.Int("batch-size"); n > 0 {
		cfg.BatchSize = n
	}
	return cfg
}

// inputFiles returns the explicit args, or every ledger file of --data-dir.
func inputFiles(c *cli.Context) ([]string, error) {
	if c.Args().Len() > 0 {
		return pipeline.LedgerFiles(c.Args().Slice()), nil
	}

	dir := c.String("data-dir")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return pipeline.LedgerFiles(paths), nil
}

func logReport(report *pipeline.Report) {
	if report == nil {
		return
	}
	event := logger.Log.Info()
	if report.FilesFailed > 0 {
		event = logger.Log.Warn().Interface("failed", report.FailedReasons)
	}
	event.
		Int("files", report.Files).
		Int("files_failed", report.FilesFailed).
		Int64("rows_parsed", report.RowsParsed).
		Int64("rows_loaded", report.RowsLoaded).
		Dur("duration", report.Duration).
		Msg("import finished")
}
