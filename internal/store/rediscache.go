package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"CoinSentinel/internal/model"
)

// CachedStatsStore wraps a StatsStore with a Redis read-through cache for
// the latest-record lookup. The retrieval policy still checks freshness on
// whatever this returns, so the TTL only bounds memory, never correctness.
type CachedStatsStore struct {
	inner StatsStore
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedStatsStore connects to Redis and wraps inner. ttl should match
// the freshness window so entries expire about when they go stale.
func NewCachedStatsStore(ctx context.Context, inner StatsStore, addr, password string, db int, ttl time.Duration) (*CachedStatsStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[INFO] redis stats cache connected: %s", addr)
	return &CachedStatsStore{inner: inner, rdb: rdb, ttl: ttl}, nil
}

func latestKey(symbol model.Symbol, period model.Period) string {
	return fmt.Sprintf("stats:latest:%s:%s", symbol, period)
}

func (c *CachedStatsStore) SaveStats(ctx context.Context, rec model.StatsRecord) (model.StatsRecord, error) {
	saved, err := c.inner.SaveStats(ctx, rec)
	if err != nil {
		return model.StatsRecord{}, err
	}
	c.cache(ctx, saved)
	return saved, nil
}

func (c *CachedStatsStore) FindLatest(ctx context.Context, symbol model.Symbol, period model.Period) (model.StatsRecord, error) {
	raw, err := c.rdb.Get(ctx, latestKey(symbol, period)).Bytes()
	if err == nil {
		var rec model.StatsRecord
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
		// Unreadable entry, fall through to the store.
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[WARN] redis get %s: %v", latestKey(symbol, period), err)
	}

	rec, err := c.inner.FindLatest(ctx, symbol, period)
	if err != nil {
		return model.StatsRecord{}, err
	}
	c.cache(ctx, rec)
	return rec, nil
}

func (c *CachedStatsStore) FindAll(ctx context.Context, symbol model.Symbol, period model.Period) ([]model.StatsRecord, error) {
	return c.inner.FindAll(ctx, symbol, period)
}

func (c *CachedStatsStore) cache(ctx context.Context, rec model.StatsRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, latestKey(rec.Symbol, rec.Period), raw, c.ttl).Err(); err != nil {
		log.Printf("[WARN] redis set %s: %v", latestKey(rec.Symbol, rec.Period), err)
	}
}

func (c *CachedStatsStore) Close() error {
	return c.rdb.Close()
}
