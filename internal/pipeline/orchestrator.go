package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/ledger"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs a ledger import over a set of local files.
type Orchestrator struct {
	cfg  Config
	sink Sink
	load LoaderFunc
}

// NewOrchestrator creates an Orchestrator that parses files with ledger.LoadFile.
func NewOrchestrator(cfg Config, sink Sink) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		sink: sink,
		load: ledger.LoadFile,
	}
}

// WithLoader swaps the file parser.
func (o *Orchestrator) WithLoader(load LoaderFunc) *Orchestrator {
	o.load = load
	return o
}

// Run imports every CSV/XLSX file in files and flushes the remainder at the
// end. Files that fail do not stop the others; the report lists them and the
// first failure is returned.
func (o *Orchestrator) Run(ctx context.Context, files []string) (*Report, error) {
	start := time.Now()
	report := &Report{FailedReasons: make(map[string]string)}

	files = LedgerFiles(files)
	if len(files) == 0 {
		return report, nil
	}

	jobs := make([]*FileJob, len(files))
	for i, f := range files {
		jobs[i] = &FileJob{FilePath: f, Status: FileStatusQueued}
	}
	report.Jobs = jobs
	report.Files = len(jobs)

	aggregator := NewStreamingAggregator(o.cfg, o.sink)
	worker := NewWorker(o.cfg, o.load, aggregator)

	log.Info().Str("pipeline", o.cfg.Name).Int("files", len(files)).Msg("starting ledger import")

	runErr := worker.processFilesParallel(ctx, jobs)
	if runErr == nil || ctx.Err() == nil {
		if err := aggregator.Finalize(ctx); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to finalize import: %w", err)
		}
	}

	for _, job := range jobs {
		report.RowsParsed += int64(job.Rows)
		if job.Status == FileStatusFailed {
			report.FilesFailed++
			report.FailedReasons[job.FilePath] = job.ErrorMessage
		}
	}
	report.RowsLoaded, report.Flushes, _ = aggregator.Stats()
	report.Duration = time.Since(start)

	log.Info().
		Str("pipeline", o.cfg.Name).
		Int("files", report.Files).
		Int("failed", report.FilesFailed).
		Int64("rows", report.RowsLoaded).
		Dur("duration", report.Duration).
		Msg("ledger import finished")

	return report, runErr
}

// LedgerFiles keeps the .csv and .xlsx paths, sorted.
func LedgerFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv", ".xlsx":
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
