package utils

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/africandeluxe/RedditClone2-Backend/config"
)

// Cache is a Redis-backed response cache. A nil *Cache is a valid no-op cache,
// so handlers never need to branch on whether caching is configured.
type Cache struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewCache constructs the cache client from configuration. The connection is
// probed once; a missing Redis only disables caching, it never fails requests.
func NewCache(cfg config.AppConfig) *Cache {
	rc := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unreachable, caching degraded: %v", err)
	}

	return &Cache{rc: rc, ttl: cfg.CacheTTL}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil || c.rc == nil {
		return nil
	}
	return c.rc.Close()
}

// GetBytes returns cached bytes for a key.
func (c *Cache) GetBytes(key string) ([]byte, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// SetJSON marshals v and stores the JSON bytes under the configured TTL.
func (c *Cache) SetJSON(key string, v interface{}) {
	if c == nil || c.rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func (c *Cache) InvalidateByPrefix(prefix string) {
	if c == nil || c.rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bound rounds to avoid long scans
		keys, cur, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
