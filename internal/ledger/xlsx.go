package ledger

import (
	"fmt"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of an XLSX ledger. The sheet must carry the
// same header row as a CSV ledger.
func ReadXLSX(path string) ([]domain.SalesRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var (
		p       *rowParser
		line    int
		records = make([]domain.SalesRecord, 0)
	)
	for rows.Next() {
		line++
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		if p == nil {
			if p, err = newRowParser(row); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		if blank(row) {
			continue
		}
		rec, err := p.parse(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, &RowError{Line: line, Err: err})
		}
		records = append(records, rec)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	return records, nil
}

// WriteXLSX writes records to a single-sheet workbook in Header order.
func WriteXLSX(path string, records []domain.SalesRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date.Format(domain.DateLayout), r.Store, r.Product, r.Category,
			r.UnitsSold, r.Price, r.Cost, r.Revenue,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx file %s: %w", path, err)
	}
	return nil
}
