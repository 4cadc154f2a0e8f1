package drive

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/inventory-analytics/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// Importer pulls ledger files from Drive and loads them through the import pipeline.
type Importer struct {
	downloader *Downloader
	source     Source
	sink       pipeline.Sink
	cfg        pipeline.Config
	workDir    string

	// OnImported runs after rows were loaded, e.g. to drop cached ledgers.
	OnImported func(ctx context.Context) error
}

func NewImporter(source Source, sink pipeline.Sink, cfg pipeline.Config, workDir string) *Importer {
	return &Importer{
		downloader: NewDownloader(source),
		source:     source,
		sink:       sink,
		cfg:        cfg,
		workDir:    workDir,
	}
}

// ImportFile loads a single CSV or XLSX Drive file.
func (i *Importer) ImportFile(ctx context.Context, fileID string) (*pipeline.Report, error) {
	f, err := i.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !isLedgerFile(f.Name) {
		return nil, fmt.Errorf("file %s is not a CSV or XLSX ledger", f.Name)
	}

	dir, cleanup, err := i.tempDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	path, err := i.downloader.DownloadTo(ctx, f, dir)
	if err != nil {
		return nil, err
	}
	return i.run(ctx, []string{path})
}

// ImportFolder loads every ledger file of a Drive folder.
func (i *Importer) ImportFolder(ctx context.Context, folderID string) (*pipeline.Report, error) {
	dir, cleanup, err := i.tempDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	paths, err := i.downloader.DownloadFolder(ctx, DownloadOptions{FolderID: folderID, DownloadDir: dir})
	if err != nil {
		return nil, err
	}
	return i.run(ctx, paths)
}

func (i *Importer) run(ctx context.Context, paths []string) (*pipeline.Report, error) {
	report, err := pipeline.NewOrchestrator(i.cfg, i.sink).Run(ctx, paths)
	if report != nil && report.RowsLoaded > 0 && i.OnImported != nil {
		if hookErr := i.OnImported(ctx); hookErr != nil {
			log.Warn().Err(hookErr).Msg("post-import hook failed")
		}
	}
	return report, err
}

func (i *Importer) tempDir() (string, func(), error) {
	if i.workDir != "" {
		if err := os.MkdirAll(i.workDir, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create work dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(i.workDir, "drive-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
