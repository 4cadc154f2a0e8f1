package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-analytics/internal/config"
	"github.com/andresuchdata/inventory-analytics/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLedgerTTL       = 5 * time.Minute
	defaultLedgerKeyPrefix = "ledger:records"
	defaultScanBatchSize   = 100
)

// LedgerCache stores filtered raw ledgers. Computed analytics are never cached.
type LedgerCache interface {
	GetRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, bool, error)
	SetRecords(ctx context.Context, filter domain.LedgerFilter, records []domain.SalesRecord) error
	InvalidateAll(ctx context.Context) error
}

type redisLedgerCache struct {
	client    *redis.Client
	ttl       time.Duration
	prefix    string
	scanBatch int64
}

type noopLedgerCache struct{}

// NewLedgerCache connects to redis when cfg.Enabled and returns the noop cache otherwise.
func NewLedgerCache(cfg config.CacheConfig) (LedgerCache, error) {
	if !cfg.Enabled {
		return &noopLedgerCache{}, nil
	}

	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisLedgerCache(client, cfg), nil
}

func NewNoopLedgerCache() LedgerCache {
	return &noopLedgerCache{}
}

func newRedisLedgerCache(client *redis.Client, cfg config.CacheConfig) *redisLedgerCache {
	c := &redisLedgerCache{
		client:    client,
		ttl:       time.Duration(cfg.LedgerTTLSeconds) * time.Second,
		prefix:    strings.TrimSuffix(strings.TrimSpace(cfg.KeyPrefix), ":"),
		scanBatch: int64(cfg.ScanBatchSize),
	}
	if c.ttl <= 0 {
		c.ttl = defaultLedgerTTL
	}
	if c.prefix == "" {
		c.prefix = defaultLedgerKeyPrefix
	}
	if c.scanBatch <= 0 {
		c.scanBatch = defaultScanBatchSize
	}
	return c
}

func (c *redisLedgerCache) GetRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, bool, error) {
	payload, err := c.client.Get(ctx, c.key(filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var records []domain.SalesRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false, fmt.Errorf("decode ledger cache: %w", err)
	}
	return records, true, nil
}

func (c *redisLedgerCache) SetRecords(ctx context.Context, filter domain.LedgerFilter, records []domain.SalesRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode ledger cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached ledger under the configured prefix,
// unlinking keys in scan-sized chunks.
func (c *redisLedgerCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", c.scanBatch).Iterator()

	chunk := make([]string, 0, c.scanBatch)
	for iter.Next(ctx) {
		chunk = append(chunk, iter.Val())
		if int64(len(chunk)) == c.scanBatch {
			if err := c.client.Unlink(ctx, chunk...).Err(); err != nil {
				return fmt.Errorf("redis unlink failed: %w", err)
			}
			chunk = chunk[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(chunk) > 0 {
		if err := c.client.Unlink(ctx, chunk...).Err(); err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
	}
	return nil
}

func (c *redisLedgerCache) key(filter domain.LedgerFilter) string {
	return ledgerKey(c.prefix, filter)
}

func (n *noopLedgerCache) GetRecords(ctx context.Context, filter domain.LedgerFilter) ([]domain.SalesRecord, bool, error) {
	return nil, false, nil
}

func (n *noopLedgerCache) SetRecords(ctx context.Context, filter domain.LedgerFilter, records []domain.SalesRecord) error {
	return nil
}

func (n *noopLedgerCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// redisOptions prefers REDIS_URL and falls back to host/port/db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func ledgerKey(prefix string, filter domain.LedgerFilter) string {
	return prefix + ":" + ledgerFilterHash(filter)
}

// ledgerFilterHash is stable under reordering and surrounding whitespace of
// the filter values. Case is kept since filter matching is case-sensitive.
func ledgerFilterHash(filter domain.LedgerFilter) string {
	parts := []string{}

	if len(filter.Stores) > 0 {
		parts = append(parts, "stores="+joinStrings(filter.Stores))
	}
	if len(filter.Categories) > 0 {
		parts = append(parts, "categories="+joinStrings(filter.Categories))
	}
	if len(filter.Products) > 0 {
		parts = append(parts, "products="+joinStrings(filter.Products))
	}
	if !filter.From.IsZero() {
		parts = append(parts, "from="+filter.From.Format(domain.DateLayout))
	}
	if !filter.To.IsZero() {
		parts = append(parts, "to="+filter.To.Format(domain.DateLayout))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func joinStrings(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(c[i])
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
