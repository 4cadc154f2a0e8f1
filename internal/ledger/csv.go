// Package ledger reads and writes sales ledgers and generates synthetic ones.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
)

// Header is the canonical ledger column order written by WriteCSV.
var Header = []string{"Date", "Store", "Product", "Category", "Units_Sold", "Price", "Cost", "Revenue"}

var requiredColumns = []string{"date", "store", "product", "category", "units_sold", "price", "cost"}

var dateLayouts = []string{domain.DateLayout, "2006-01-02 15:04:05", time.RFC3339, "01/02/2006"}

// ErrUnsupportedFormat is returned by LoadFile for extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported ledger format")

// RowError points at the line of a ledger file that failed to parse.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// LoadFile reads a CSV or XLSX ledger depending on the file extension.
func LoadFile(path string) ([]domain.SalesRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
		}
		defer f.Close()
		records, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
		}
		return records, nil
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV parses a ledger with a header row. Column names are matched
// case-insensitively with spaces treated as underscores; a Revenue column is
// ignored and recomputed.
func ReadCSV(r io.Reader) ([]domain.SalesRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []domain.SalesRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	p, err := newRowParser(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SalesRecord, 0)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		if blank(row) {
			continue
		}
		rec, err := p.parse(row)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes records in Header order.
func WriteCSV(w io.Writer, records []domain.SalesRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(domain.DateLayout),
			r.Store,
			r.Product,
			r.Category,
			strconv.Itoa(r.UnitsSold),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.Cost, 'f', 2, 64),
			strconv.FormatFloat(r.Revenue, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// rowParser maps header positions to record fields.
type rowParser struct {
	index map[string]int
}

func newRowParser(header []string) (*rowParser, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeColumn(name)] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("ledger header is missing columns: %s", strings.Join(missing, ", "))
	}
	return &rowParser{index: index}, nil
}

func (p *rowParser) field(row []string, col string) string {
	i := p.index[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (p *rowParser) parse(row []string) (domain.SalesRecord, error) {
	date, err := parseDate(p.field(row, "date"))
	if err != nil {
		return domain.SalesRecord{}, err
	}
	units, err := parseUnits(p.field(row, "units_sold"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("units_sold: %w", err)
	}
	price, err := strconv.ParseFloat(p.field(row, "price"), 64)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("price: %w", err)
	}
	cost, err := strconv.ParseFloat(p.field(row, "cost"), 64)
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("cost: %w", err)
	}

	rec := domain.NewSalesRecord(date,
		p.field(row, "store"),
		p.field(row, "product"),
		p.field(row, "category"),
		units, price, cost)
	if err := rec.Validate(); err != nil {
		return domain.SalesRecord{}, err
	}
	return rec, nil
}

// parseUnits accepts "12" as well as spreadsheet-style "12.0".
func parseUnits(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole number: %s", s)
	}
	return int(f), nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	return strings.ReplaceAll(name, " ", "_")
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
