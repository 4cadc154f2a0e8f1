package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var salesColumns = []string{"sale_date", "store", "product", "category", "units_sold", "price", "cost", "revenue"}

// BulkLoader streams ledger rows into sales_records with COPY.
type BulkLoader struct {
	pool *pgxpool.Pool
}

// NewBulkLoader opens a pgx pool for connURL.
func NewBulkLoader(ctx context.Context, connURL string) (*BulkLoader, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &BulkLoader{pool: pool}, nil
}

// Load copies records into sales_records and returns the row count.
func (b *BulkLoader) Load(ctx context.Context, records []domain.SalesRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	n, err := b.pool.CopyFrom(ctx, pgx.Identifier{"sales_records"}, salesColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return copyRow(records[i]), nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy into sales_records failed: %w", err)
	}
	log.Debug().Int64("rows", n).Msg("bulk loaded sales records")
	return n, nil
}

// Truncate empties sales_records before a full reload.
func (b *BulkLoader) Truncate(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, "TRUNCATE TABLE sales_records RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate sales_records failed: %w", err)
	}
	return nil
}

func (b *BulkLoader) Close() {
	b.pool.Close()
}

func copyRow(r domain.SalesRecord) []any {
	return []any{r.Date, r.Store, r.Product, r.Category, int32(r.UnitsSold), r.Price, r.Cost, r.Revenue}
}
