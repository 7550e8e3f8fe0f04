// Package cache provides a redis-backed read-through cache for weekly
// progress windows.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/focuslit/internal/constants"
	"github.com/julianstephens/focuslit/internal/logger"
	"github.com/julianstephens/focuslit/internal/models"
)

// WeeklyCache stores each user's weekly windows in one redis hash keyed by
// window start, so invalidating a user is a single DEL.
type WeeklyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWeeklyCache(client *redis.Client, ttl time.Duration) *WeeklyCache {
	return &WeeklyCache{client: client, ttl: ttl}
}

// Open connects to addr and verifies the connection with PING.
func Open(ctx context.Context, addr, password string, ttl time.Duration) (*WeeklyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewWeeklyCache(client, ttl), nil
}

func (c *WeeklyCache) Close() error {
	return c.client.Close()
}

func weeklyKey(userID int64) string {
	return fmt.Sprintf("%s:progress:weekly:%d", constants.AppName, userID)
}

func (c *WeeklyCache) GetWeekly(ctx context.Context, userID int64, since models.Day) ([]models.ProgressRecord, bool) {
	val, err := c.client.HGet(ctx, weeklyKey(userID), since.String()).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Debug("Weekly cache read failed", "user", userID, "error", err)
		}
		return nil, false
	}

	var records []models.ProgressRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		logger.Warn("Discarding unreadable weekly cache entry", "user", userID, "error", err)
		return nil, false
	}
	return records, true
}

func (c *WeeklyCache) SetWeekly(ctx context.Context, userID int64, since models.Day, records []models.ProgressRecord) {
	if records == nil {
		records = []models.ProgressRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}

	key := weeklyKey(userID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, since.String(), data)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Debug("Weekly cache write failed", "user", userID, "error", err)
	}
}

func (c *WeeklyCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.client.Del(ctx, weeklyKey(userID)).Err(); err != nil {
		logger.Warn("Weekly cache invalidation failed", "user", userID, "error", err)
	}
}
