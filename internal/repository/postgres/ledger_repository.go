package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/andresuchdata/inventory-analytics/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ledgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository reads the ledger from the sales_records table.
func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// salesRow mirrors a sales_records row; revenue is rebuilt by the domain constructor.
type salesRow struct {
	SaleDate  time.Time `db:"sale_date"`
	Store     string    `db:"store"`
	Product   string    `db:"product"`
	Category  string    `db:"category"`
	UnitsSold int       `db:"units_sold"`
	Price     float64   `db:"price"`
	Cost      float64   `db:"cost"`
}

func (r *ledgerRepository) FindRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, error) {
	where, args := buildLedgerFilterClause(filter, 1)
	query := `
		SELECT sale_date, store, product, category, units_sold, price::float8 AS price, cost::float8 AS cost
		FROM sales_records
		WHERE 1=1` + where + `
		ORDER BY sale_date, store, product, id
	`

	var rows []salesRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error querying sales records: %w", err)
	}

	records := make([]domain.SalesRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.NewSalesRecord(row.SaleDate, row.Store, row.Product, row.Category, row.UnitsSold, row.Price, row.Cost)
	}
	return records, nil
}

func (r *ledgerRepository) Dimensions(ctx context.Context) (domain.LedgerDimensions, error) {
	dims := domain.LedgerDimensions{
		Stores:     []string{},
		Categories: []string{},
		Products:   []string{},
	}

	lists := []struct {
		column string
		dest   *[]string
	}{
		{"store", &dims.Stores},
		{"category", &dims.Categories},
		{"product", &dims.Products},
	}
	for _, l := range lists {
		query := fmt.Sprintf("SELECT DISTINCT %[1]s FROM sales_records WHERE %[1]s <> '' ORDER BY %[1]s", l.column)
		if err := r.db.SelectContext(ctx, l.dest, query); err != nil {
			return domain.LedgerDimensions{}, fmt.Errorf("error getting distinct %s: %w", l.column, err)
		}
	}

	var span struct {
		MinDate *time.Time `db:"min_date"`
		MaxDate *time.Time `db:"max_date"`
	}
	if err := r.db.GetContext(ctx, &span, `SELECT MIN(sale_date) AS min_date, MAX(sale_date) AS max_date FROM sales_records`); err != nil {
		return domain.LedgerDimensions{}, fmt.Errorf("error getting date span: %w", err)
	}
	if span.MinDate != nil {
		dims.MinDate = domain.TruncateDay(*span.MinDate)
	}
	if span.MaxDate != nil {
		dims.MaxDate = domain.TruncateDay(*span.MaxDate)
	}
	return dims, nil
}

// buildLedgerFilterClause renders filter as " AND ..." conditions with
// positional parameters starting at startIndex.
func buildLedgerFilterClause(filter domain.LedgerFilter, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	lists := []struct {
		column string
		values []string
	}{
		{"store", filter.Stores},
		{"category", filter.Categories},
		{"product", filter.Products},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ANY($%d::text[])", l.column, idx))
		args = append(args, pq.Array(l.values))
		idx++
	}

	if !filter.From.IsZero() {
		clauses = append(clauses, fmt.Sprintf("sale_date >= $%d", idx))
		args = append(args, filter.From.Format(domain.DateLayout))
		idx++
	}
	if !filter.To.IsZero() {
		clauses = append(clauses, fmt.Sprintf("sale_date <= $%d", idx))
		args = append(args, filter.To.Format(domain.DateLayout))
		idx++
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}
