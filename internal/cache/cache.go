// Package cache stores rendered query responses in Redis. Cache failures are
// never fatal: errors are logged and reads degrade to misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xrpstat/gwstat/internal/report"
)

// ReportCache implements report.Cache over Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a ReportCache with the given entry lifetime.
func New(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Connect builds a Redis client from a URL and verifies connectivity.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Get looks up a cached response.
func (c *ReportCache) Get(ctx context.Context, key string) (report.Response, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return report.Response{}, false
	}
	var resp report.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		slog.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return report.Response{}, false
	}
	return resp, true
}

// Set stores a response under the key for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, resp report.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}
