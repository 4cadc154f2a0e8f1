package ledger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Store,Product,Category,Units_Sold,Price,Cost,Revenue
2024-01-01,Chicago,P1,Home,12,10.5,6.3,999
2024-01-02,Chicago,P2,Grocery,3.0,20,12,60

2024-01-02,Dallas,P1,Home,0,10,6,0
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Chicago", first.Store)
	assert.Equal(t, "Home", first.Category)
	assert.Equal(t, 12, first.UnitsSold)
	// supplied revenue is ignored
	assert.InDelta(t, 126.0, first.Revenue, 1e-9)

	assert.Equal(t, 3, records[1].UnitsSold)
}

func TestReadCSVHeaderVariants(t *testing.T) {
	in := "date, store ,PRODUCT,Category,Units Sold,price,cost\n2024-02-01 08:30:00,S1,P1,Toys,1,2,1\n"
	records, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Date,Store,Product\n"))
	assert.ErrorContains(t, err, "units_sold")

	_, err = ReadCSV(strings.NewReader("Date,Store,Product,Category,Units_Sold,Price,Cost\n2024-01-01,S1,P1,X,-2,1,1\n"))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)

	_, err = ReadCSV(strings.NewReader("Date,Store,Product,Category,Units_Sold,Price,Cost\nyesterday,S1,P1,X,2,1,1\n"))
	assert.ErrorContains(t, err, "invalid date")

	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Store,Product,Category,Units_Sold,Price,Cost,Revenue\n"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))
	fromCSV, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, fromCSV, 3)

	xlsxPath := filepath.Join(dir, "sales.xlsx")
	require.NoError(t, WriteXLSX(xlsxPath, fromCSV))
	fromXLSX, err := LoadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromXLSX)

	_, err = LoadFile(filepath.Join(dir, "sales.parquet"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestApplyAndDescribe(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	got := Apply(records, domain.LedgerFilter{Stores: []string{"Chicago"}})
	assert.Len(t, got, 2)

	got = Apply(records, domain.LedgerFilter{From: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	assert.Len(t, got, 2)
	assert.Len(t, records, 3)

	dims := Describe(records)
	assert.Equal(t, []string{"Chicago", "Dallas"}, dims.Stores)
	assert.Equal(t, []string{"Grocery", "Home"}, dims.Categories)
	assert.Equal(t, []string{"P1", "P2"}, dims.Products)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dims.MaxDate)
}

func TestGenerator(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Stores = cfg.Stores[:2]
	cfg.Products = cfg.Products[:3]
	cfg.End = cfg.Start.AddDate(0, 0, 9)

	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	records := g.Generate()
	require.Len(t, records, 2*3*10)

	for _, r := range records {
		require.NoError(t, r.Validate())
		assert.GreaterOrEqual(t, r.UnitsSold, 0)
		assert.GreaterOrEqual(t, r.Price, 10.0)
		assert.Less(t, r.Price, 100.0)
		assert.InDelta(t, r.Price*0.6, r.Cost, 1e-9)
		assert.Contains(t, cfg.Categories, r.Category)
	}

	again, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.Equal(t, records, again.Generate())
}

func TestGeneratorRejectsConfig(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.End = cfg.Start.AddDate(0, 0, -1)
	_, err := NewGenerator(cfg)
	assert.Error(t, err)

	cfg = DefaultGeneratorConfig()
	cfg.Stores = nil
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}
