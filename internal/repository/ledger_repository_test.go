package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerCSV = `Date,Store,Product,Category,Units_Sold,Price,Cost
2024-01-01,Chicago,P1,Home,12,10,6
2024-01-02,Dallas,P2,Toys,3,20,12
2024-01-03,Chicago,P2,Toys,5,20,12
`

func TestFileLedgerRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(ledgerCSV), 0o644))

	repo, err := NewFileLedgerRepository(path)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := repo.FindRecords(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	chicago, err := repo.FindRecords(ctx, domain.LedgerFilter{Stores: []string{"Chicago"}, Categories: []string{"Toys"}})
	require.NoError(t, err)
	require.Len(t, chicago, 1)
	assert.Equal(t, 5, chicago[0].UnitsSold)

	dims, err := repo.Dimensions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicago", "Dallas"}, dims.Stores)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), dims.MaxDate)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.FindRecords(cancelled, domain.LedgerFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileLedgerRepositoryMissingFile(t *testing.T) {
	_, err := NewFileLedgerRepository(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.calls++
	return f.err
}

func TestIngestRepositoryLoad(t *testing.T) {
	tx := &fakeTx{}
	repo := NewIngestRepository(tx)

	n, err := repo.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, tx.calls)

	tx.err = errors.New("connection refused")
	rec := domain.NewSalesRecord(time.Now(), "S1", "P1", "Toys", 1, 2, 1)
	_, err = repo.Load(context.Background(), []domain.SalesRecord{rec})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, tx.calls)
}
