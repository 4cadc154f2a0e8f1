package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker parses ledger files concurrently and feeds the aggregator
type Worker struct {
	config     Config
	load       LoaderFunc
	aggregator *StreamingAggregator
}

// NewWorker creates a new pipeline worker
func NewWorker(config Config, load LoaderFunc, aggregator *StreamingAggregator) *Worker {
	return &Worker{
		config:     config,
		load:       load,
		aggregator: aggregator,
	}
}

// processFilesParallel processes files using a worker pool. Every job is
// attempted; the first failure is returned after the pool drains.
func (w *Worker) processFilesParallel(ctx context.Context, jobs []*FileJob) error {
	workerCount := w.config.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	jobChan := make(chan *FileJob, len(jobs))
	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				if err := w.processFile(ctx, job); err != nil {
					log.Error().Err(err).
						Str("pipeline", w.config.Name).
						Int("worker", workerID).
						Str("file", job.FilePath).
						Msg("failed to process file")
					select {
					case errChan <- err:
					default:
					}
				}
			}
		}(i)
	}

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return ctx.Err()
		case jobChan <- job:
		}
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}

	return nil
}

// processFile parses a single file, retrying with backoff, and buffers its records
func (w *Worker) processFile(ctx context.Context, job *FileJob) error {
	startTime := time.Now()
	job.Status = FileStatusProcessing

	attempts := w.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		records, err := w.load(job.FilePath)
		if err == nil {
			if err := w.aggregator.AddFileData(ctx, records); err != nil {
				return w.markJobFailed(job, fmt.Errorf("aggregation failed: %w", err))
			}
			job.Status = FileStatusCompleted
			job.Rows = len(records)
			now := time.Now()
			job.ProcessedAt = &now

			log.Info().
				Str("pipeline", w.config.Name).
				Str("file", job.FilePath).
				Int("rows", len(records)).
				Dur("duration", time.Since(startTime)).
				Msg("file processed")
			return nil
		}

		lastErr = err
		job.RetryCount = attempt
		if attempt < attempts {
			log.Warn().Err(err).
				Str("file", job.FilePath).
				Msgf("will retry (attempt %d/%d)", attempt, attempts)
			select {
			case <-ctx.Done():
				return w.markJobFailed(job, ctx.Err())
			case <-time.After(w.config.RetryBackoff):
			}
		}
	}

	return w.markJobFailed(job, fmt.Errorf("parse failed: %w", lastErr))
}

func (w *Worker) markJobFailed(job *FileJob, err error) error {
	job.Status = FileStatusFailed
	job.ErrorMessage = err.Error()
	return fmt.Errorf("%s: %w", job.FilePath, err)
}
