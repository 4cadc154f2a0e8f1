package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// IngestRepository appends ledger rows with plain INSERTs inside one transaction.
// It suits small uploads; bulk seeding goes through postgres.BulkLoader.
type IngestRepository struct {
	db TxRunner
}

func NewIngestRepository(db TxRunner) *IngestRepository {
	return &IngestRepository{db: db}
}

// Load inserts records and returns the number written. Either every row is
// written or none is.
func (r *IngestRepository) Load(ctx context.Context, records []domain.SalesRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO sales_records (sale_date, store, product, category, units_sold, price, cost, revenue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var written int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx,
				rec.Date, rec.Store, rec.Product, rec.Category,
				rec.UnitsSold, rec.Price, rec.Cost, rec.Revenue,
			); err != nil {
				return fmt.Errorf("failed to insert record %s/%s/%s: %w",
					rec.Date.Format(domain.DateLayout), rec.Store, rec.Product, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
