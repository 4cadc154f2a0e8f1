package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/ledger"
)

// LedgerRepository serves the raw sales ledger, filtered.
type LedgerRepository interface {
	FindRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, error)
	Dimensions(ctx context.Context) (domain.LedgerDimensions, error)
}

// fileLedgerRepository keeps a CSV or XLSX ledger in memory.
type fileLedgerRepository struct {
	path string

	mu      sync.RWMutex
	records []domain.SalesRecord
	dims    domain.LedgerDimensions
}

// NewFileLedgerRepository loads the ledger at path.
func NewFileLedgerRepository(path string) (LedgerRepository, error) {
	r := &fileLedgerRepository{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewMemoryLedgerRepository serves an already loaded ledger.
func NewMemoryLedgerRepository(records []domain.SalesRecord) LedgerRepository {
	return &fileLedgerRepository{records: records, dims: ledger.Describe(records)}
}

// Reload re-reads the ledger file.
func (r *fileLedgerRepository) Reload() error {
	records, err := ledger.LoadFile(r.path)
	if err != nil {
		return fmt.Errorf("error loading ledger: %w", err)
	}
	dims := ledger.Describe(records)

	r.mu.Lock()
	r.records = records
	r.dims = dims
	r.mu.Unlock()
	return nil
}

func (r *fileLedgerRepository) FindRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ledger.Apply(r.records, filter), nil
}

func (r *fileLedgerRepository) Dimensions(ctx context.Context) (domain.LedgerDimensions, error) {
	if err := ctx.Err(); err != nil {
		return domain.LedgerDimensions{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dims, nil
}
