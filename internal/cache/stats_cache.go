package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"jobtracker/internal/app"
)

// StatsCache keeps per-user statistics in redis between writes. Every write
// to an application invalidates the owner's entry.
type StatsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStatsCache(client *redisv9.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &StatsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *StatsCache) Get(ctx context.Context, userID uint) (*app.Statistics, bool, error) {
	raw, err := c.client.Get(ctx, c.statsKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get stats failed: %w", err)
	}

	var stats app.Statistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached stats failed: %w", err)
	}
	return &stats, true, nil
}

func (c *StatsCache) Set(ctx context.Context, userID uint, stats app.Statistics) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.statsKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.statsKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) statsKey(userID uint) string {
	return fmt.Sprintf("applications:stats:%d", userID)
}
