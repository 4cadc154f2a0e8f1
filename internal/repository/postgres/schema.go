package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS sales_records (
	id          BIGSERIAL PRIMARY KEY,
	sale_date   DATE           NOT NULL,
	store       TEXT           NOT NULL,
	product     TEXT           NOT NULL,
	category    TEXT           NOT NULL DEFAULT '',
	units_sold  INTEGER        NOT NULL CHECK (units_sold >= 0),
	price       NUMERIC(12, 4) NOT NULL CHECK (price > 0),
	cost        NUMERIC(12, 4) NOT NULL CHECK (cost > 0),
	revenue     NUMERIC(14, 4) NOT NULL,
	created_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sales_records_date ON sales_records (sale_date);
CREATE INDEX IF NOT EXISTS idx_sales_records_store_product ON sales_records (store, product, sale_date);
`

// EnsureSchema creates the sales_records table and its indexes when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
