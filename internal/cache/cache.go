// Package cache is an optional Redis read-through cache for computed views.
// A nil *Cache is valid and caches nothing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/go-redis/redis/v8"
)

const (
	KeyStockLevels    = "inventory:stock-levels"
	PrefixPayoutTotal = "payouts:summary:"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns nil when opts.Addr is empty. A failed ping is an error.
func New(ctx context.Context, opts Options) (*Cache, error) {
	if opts.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return NewWithClient(rdb, opts.TTL), nil
}

func NewWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// GetJSON loads key into dst and reports whether it was a hit.
// Redis failures count as misses.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logging.Warn("cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logging.Warn("cache delete failed", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

// DeletePrefix drops every key starting with prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logging.Warn("cache scan failed", map[string]interface{}{"prefix": prefix, "error": err.Error()})
		return
	}
	c.Delete(ctx, keys...)
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
