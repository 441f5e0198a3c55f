// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/metrics"
)

const (
	rankingKeyTpl = "rankings:%s:%s:%d" // rankings:${kind}:${round}:${limit}
	indexKeyTpl   = "rankings:%s:%s"    // set of ranking keys for kind and round
)

// Rankings caches computed rankings in redis. A disabled cache misses on every lookup.
type Rankings struct {
	enabled bool
	redis   *redis.Client
	ttl     time.Duration
}

func New(redisURL string, ttl time.Duration) (*Rankings, error) {
	if redisURL == "" {
		return &Rankings{enabled: false}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Rankings{
		enabled: true,
		redis:   client,
		ttl:     ttl,
	}, nil
}

func (c *Rankings) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Rankings) Close() error {
	if c != nil && c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// Get decodes the cached rankings into dst and reports whether there was a hit.
func (c *Rankings) Get(ctx context.Context, kind, round string, limit int, dst any) bool {
	if !c.Enabled() {
		return false
	}

	key := fmt.Sprintf(rankingKeyTpl, kind, round, limit)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.RankingCacheRequests.WithLabelValues("miss").Inc()
		return false
	}
	if err != nil {
		logger.Debug.Printf("Redis error reading %s: %v", key, err)
		metrics.RankingCacheRequests.WithLabelValues("error").Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logger.Debug.Printf("Dropping unreadable cache entry %s: %v", key, err)
		metrics.RankingCacheRequests.WithLabelValues("error").Inc()
		return false
	}

	metrics.RankingCacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (c *Rankings) Set(ctx context.Context, kind, round string, limit int, value any) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode rankings: %w", err)
	}

	key := fmt.Sprintf(rankingKeyTpl, kind, round, limit)
	index := fmt.Sprintf(indexKeyTpl, kind, round)

	pipe := c.redis.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, index, key)
	pipe.Expire(ctx, index, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache rankings: %w", err)
	}
	return nil
}

// Invalidate drops every cached ranking of kind in round.
func (c *Rankings) Invalidate(ctx context.Context, kind, round string) error {
	if !c.Enabled() {
		return nil
	}

	index := fmt.Sprintf(indexKeyTpl, kind, round)
	keys, err := c.redis.SMembers(ctx, index).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read rankings index: %w", err)
	}

	if err := c.redis.Del(ctx, append(keys, index)...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rankings: %w", err)
	}
	return nil
}
