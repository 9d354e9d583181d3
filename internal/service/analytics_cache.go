package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"study_planner_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const analyticsKeyPrefix = "study_planner:analytics:"

// AnalyticsCache holds per-user analytics snapshots between mutations.
type AnalyticsCache interface {
	// Get decodes the cached snapshot into dest and reports whether there was one.
	Get(ctx context.Context, userID uint, dest interface{}) (bool, error)
	Set(ctx context.Context, userID uint, value interface{}) error
	Invalidate(ctx context.Context, userID uint) error
	// InvalidateAll drops every user's snapshot, used after bulk task updates.
	InvalidateAll(ctx context.Context) error
}

type RedisAnalyticsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAnalyticsCache(client *redis.Client, ttl time.Duration) *RedisAnalyticsCache {
	return &RedisAnalyticsCache{Client: client, TTL: ttl}
}

func analyticsKey(userID uint) string {
	return fmt.Sprintf("%s%d", analyticsKeyPrefix, userID)
}

func (c *RedisAnalyticsCache) Get(ctx context.Context, userID uint, dest interface{}) (bool, error) {
	raw, err := c.Client.Get(ctx, analyticsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisAnalyticsCache) Set(ctx context.Context, userID uint, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, analyticsKey(userID), raw, c.TTL).Err()
}

func (c *RedisAnalyticsCache) Invalidate(ctx context.Context, userID uint) error {
	return c.Client.Del(ctx, analyticsKey(userID)).Err()
}

func (c *RedisAnalyticsCache) InvalidateAll(ctx context.Context) error {
	iter := c.Client.Scan(ctx, 0, analyticsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// NoopAnalyticsCache is used when redis is disabled; every lookup misses.
type NoopAnalyticsCache struct{}

func (NoopAnalyticsCache) Get(context.Context, uint, interface{}) (bool, error) { return false, nil }
func (NoopAnalyticsCache) Set(context.Context, uint, interface{}) error         { return nil }
func (NoopAnalyticsCache) Invalidate(context.Context, uint) error               { return nil }
func (NoopAnalyticsCache) InvalidateAll(context.Context) error                  { return nil }

// NewAnalyticsCache picks the redis-backed cache when a client is available.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	if client == nil {
		return NoopAnalyticsCache{}
	}
	return NewRedisAnalyticsCache(client, ttl)
}

// invalidateAnalytics drops a user's snapshot; failures are only logged.
func invalidateAnalytics(ctx context.Context, cache AnalyticsCache, userID uint) {
	if err := cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warn("Failed to invalidate analytics cache", zap.Uint("userID", userID), zap.Error(err))
	}
}
