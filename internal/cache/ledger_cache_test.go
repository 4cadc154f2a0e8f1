package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerFilterHash(t *testing.T) {
	assert.Equal(t, "ledger:records:default", ledgerKey(defaultLedgerKeyPrefix, domain.LedgerFilter{}))

	a := domain.LedgerFilter{Stores: []string{"Dallas", "Chicago"}, Categories: []string{"Toys"}}
	b := domain.LedgerFilter{Stores: []string{" Chicago", "Dallas"}, Categories: []string{"Toys"}}
	assert.Equal(t, ledgerFilterHash(a), ledgerFilterHash(b))
	assert.Len(t, ledgerFilterHash(a), 40)

	c := a
	c.From = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, ledgerFilterHash(a), ledgerFilterHash(c))

	// case is significant, matching LedgerFilter.Match
	assert.NotEqual(t,
		ledgerFilterHash(domain.LedgerFilter{Stores: []string{"chicago"}}),
		ledgerFilterHash(domain.LedgerFilter{Stores: []string{"Chicago"}}))

	// store and product values must not collide
	assert.NotEqual(t,
		ledgerFilterHash(domain.LedgerFilter{Stores: []string{"X"}}),
		ledgerFilterHash(domain.LedgerFilter{Products: []string{"X"}}))
}

func TestNoopLedgerCache(t *testing.T) {
	c, err := NewLedgerCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.SetRecords(ctx, domain.LedgerFilter{}, []domain.SalesRecord{{Store: "S"}}))
	records, ok, err := c.GetRecords(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, records)
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@localhost:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestRedisLedgerCacheSettings(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	c := newRedisLedgerCache(client, config.CacheConfig{})
	assert.Equal(t, defaultLedgerTTL, c.ttl)
	assert.Equal(t, defaultLedgerKeyPrefix, c.prefix)
	assert.Equal(t, int64(defaultScanBatchSize), c.scanBatch)

	c = newRedisLedgerCache(client, config.CacheConfig{LedgerTTLSeconds: 60, KeyPrefix: "tenant-a:ledger:", ScanBatchSize: 500})
	assert.Equal(t, time.Minute, c.ttl)
	assert.Equal(t, "tenant-a:ledger", c.prefix)
	assert.Equal(t, int64(500), c.scanBatch)
	assert.Equal(t, "tenant-a:ledger:default", c.key(domain.LedgerFilter{}))
}
