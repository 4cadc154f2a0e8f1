package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

// StreamingAggregator buffers parsed records and flushes them to the sink in batches
type StreamingAggregator struct {
	config    Config
	sink      Sink
	buffer    []domain.SalesRecord
	mu        sync.Mutex
	lastFlush time.Time

	loaded  int64
	flushes int
}

// NewStreamingAggregator creates a new streaming aggregator
func NewStreamingAggregator(config Config, sink Sink) *StreamingAggregator {
	return &StreamingAggregator{
		config:    config,
		sink:      sink,
		buffer:    make([]domain.SalesRecord, 0, config.BatchSize),
		lastFlush: time.Now(),
	}
}

// AddFileData adds the records of a single file to the buffer. When the
// resulting flush fails the file's records are dropped from the buffer again.
func (sa *StreamingAggregator) AddFileData(ctx context.Context, records []domain.SalesRecord) error {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	before := len(sa.buffer)
	sa.buffer = append(sa.buffer, records...)

	shouldFlush := len(sa.buffer) >= sa.config.BatchSize ||
		(sa.config.FlushInterval > 0 && time.Since(sa.lastFlush) >= sa.config.FlushInterval)

	if shouldFlush {
		if err := sa.flushLocked(ctx); err != nil {
			// the caller marks this file failed, so none of its rows may stay behind
			sa.buffer = sa.buffer[:before]
			return err
		}
	}

	return nil
}

// Finalize flushes any remaining records
func (sa *StreamingAggregator) Finalize(ctx context.Context) error {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if len(sa.buffer) == 0 {
		log.Debug().Str("pipeline", sa.config.Name).Msg("no data to finalize")
		return nil
	}

	return sa.flushLocked(ctx)
}

// flushLocked hands the buffer to the sink.
// Must be called with sa.mu locked
func (sa *StreamingAggregator) flushLocked(ctx context.Context) error {
	if len(sa.buffer) == 0 {
		return nil
	}

	n, err := sa.sink.Load(ctx, sa.buffer)
	if err != nil {
		return fmt.Errorf("flush of %d records failed: %w", len(sa.buffer), err)
	}

	log.Info().
		Str("pipeline", sa.config.Name).
		Int("buffered", len(sa.buffer)).
		Int64("loaded", n).
		Msg("flushed ledger batch")

	sa.loaded += n
	sa.flushes++
	sa.buffer = sa.buffer[:0]
	sa.lastFlush = time.Now()

	return nil
}

// Stats returns rows loaded so far, flush count and the current buffer length.
func (sa *StreamingAggregator) Stats() (loaded int64, flushes int, buffered int) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	return sa.loaded, sa.flushes, len(sa.buffer)
}
