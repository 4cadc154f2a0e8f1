package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// Sink receives parsed ledger records in batches.
type Sink interface {
	Load(ctx context.Context, records []domain.SalesRecord) (int64, error)
}

// LoaderFunc parses one ledger file.
type LoaderFunc func(path string) ([]domain.SalesRecord, error)

// Config holds configuration for an import run
type Config struct {
	Name          string
	BatchSize     int           // Records to buffer before flushing to the sink
	FlushInterval time.Duration // Max time to wait before flushing
	WorkerCount   int           // Number of concurrent file parsers
	RetryAttempts int           // Attempts per file, including the first
	RetryBackoff  time.Duration // Backoff between attempts
}

// DefaultConfig returns sensible defaults
func DefaultConfig(name string) Config {
	return Config{
		Name:          name,
		BatchSize:     5000,
		FlushInterval: time.Minute,
		WorkerCount:   4,
		RetryAttempts: 3,
		RetryBackoff:  2 * time.Second,
	}
}

// FileJobStatus represents the state of a single file processing job
type FileJobStatus string

const (
	FileStatusQueued     FileJobStatus = "queued"
	FileStatusProcessing FileJobStatus = "processing"
	FileStatusCompleted  FileJobStatus = "completed"
	FileStatusFailed     FileJobStatus = "failed"
)

// FileJob tracks the processing of a single file
type FileJob struct {
	FilePath     string
	Status       FileJobStatus
	Rows         int
	ErrorMessage string
	RetryCount   int
	ProcessedAt  *time.Time
}

// Report summarizes an import run.
type Report struct {
	Files         int
	FilesFailed   int
	RowsParsed    int64
	RowsLoaded    int64
	Flushes       int
	Duration      time.Duration
	Jobs          []*FileJob
	FailedReasons map[string]string
}
