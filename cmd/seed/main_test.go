package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/andresuchdata/inventory-analytics/internal/ledger"
	"github.com/andresuchdata/inventory-analytics/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, m.objects[key], 0o644)
}

func (m *memoryStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	m.objects[key] = data
	return nil
}

func TestResolveObjectKey(t *testing.T) {
	assert.Equal(t, "ledgers", resolveObjectKey("ledgers", ""))
	assert.Equal(t, "sales.csv", resolveObjectKey("", "/sales.csv"))
	assert.Equal(t, "ledgers/sales.csv", resolveObjectKey("ledgers/", "sales.csv"))
	assert.Equal(t, "ledgers/2024/sales.csv", resolveObjectKey("ledgers", "ledgers/2024/sales.csv"))
}

func TestObjectRelativePath(t *testing.T) {
	assert.Equal(t, "2024/sales.csv", objectRelativePath("ledgers", "ledgers/2024/sales.csv"))
	assert.Equal(t, "sales.csv", objectRelativePath("", "sales.csv"))
	assert.Equal(t, "ledgers", objectRelativePath("ledgers", "ledgers/"))
}

func TestLedgerSyncPushPull(t *testing.T) {
	src := t.TempDir()
	csvPath := filepath.Join(src, "sales.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Date,Store\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip"), 0o644))

	store := &memoryStorage{objects: map[string][]byte{}}
	dest := t.TempDir()
	s := &ledgerSync{client: store, dir: dest}
	ctx := context.Background()

	keys, err := s.push(ctx, "ledgers", []string{csvPath, filepath.Join(src, "notes.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{"ledgers/sales.csv"}, keys)

	store.objects["ledgers/readme.md"] = []byte("ignored")
	paths, err := s.pull(ctx, "ledgers", "")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dest, "sales.csv")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "Date,Store\n", string(data))

	_, err = s.pull(ctx, "missing", "")
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ledger", "sales.csv")
	err := newApp().Run([]string{"seed", "generate",
		"--out", out,
		"--start", "2024-01-01", "--end", "2024-01-03",
		"--stores", "Chicago,Dallas",
		"--products", "2",
	})
	require.NoError(t, err)

	records, err := ledger.LoadFile(out)
	require.NoError(t, err)
	assert.Len(t, records, 2*2*3)
	assert.Equal(t, "Chicago", records[0].Store)
	assert.Equal(t, "P1", records[0].Product)
}

func TestGenerateRejectsBadRange(t *testing.T) {
	err := newApp().Run([]string{"seed", "generate",
		"--out", filepath.Join(t.TempDir(), "sales.csv"),
		"--start", "2024-02-01", "--end", "2024-01-01",
	})
	assert.Error(t, err)
}

func TestInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.xlsx", "c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	var got []string
	app := &cli.App{
		Name: "seed",
		Commands: []*cli.Command{{
			Name:  "probe",
			Flags: []cli.Flag{newDataDirFlag()},
			Action: func(c *cli.Context) error {
				var err error
				got, err = inputFiles(c)
				return err
			},
		}},
	}
	require.NoError(t, app.Run([]string{"seed", "probe", "--data-dir", dir}))
	assert.Equal(t, []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.csv")}, got)
}
