package storefront

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/common/errors"
	"storefront-admin/internal/common/metrics"
)

const (
	DefaultStatsCacheKey = "storefront:stats"
	DefaultStatsCacheTTL = time.Minute
)

// StatsCache keeps the latest snapshot in Redis as JSON.
type StatsCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewStatsCache(client redis.Cmdable, key string, ttl time.Duration) *StatsCache {
	if key == "" {
		key = DefaultStatsCacheKey
	}
	if ttl <= 0 {
		ttl = DefaultStatsCacheTTL
	}
	return &StatsCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached snapshot. A miss is (nil, false, nil).
func (c *StatsCache) Get(ctx context.Context) (*stats.StatsSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.StatsCacheLookups.WithLabelValues("error").Inc()
		return nil, false, errors.NewStatsCacheFailedError(err)
	}

	var snap stats.StatsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A stale or foreign payload counts as a miss.
		metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
	return &snap, true, nil
}

func (c *StatsCache) Set(ctx context.Context, snap stats.StatsSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return errors.NewStatsCacheFailedError(err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return errors.NewStatsCacheFailedError(err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return errors.NewStatsCacheFailedError(err)
	}
	return nil
}
