package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"timeclock/internal/attendance/models"
)

// RedisCache backs the entry cache with Redis so multiple instances share one
// view of recently touched entries.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func entryKey(id int64) string {
	return fmt.Sprintf("entry:%d", id)
}

func (c *RedisCache) Get(ctx context.Context, id int64) (*models.Entry, bool) {
	raw, err := c.client.Get(ctx, entryKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var e models.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	return &e, true
}

func (c *RedisCache) Set(ctx context.Context, e *models.Entry) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	// Best effort; the store remains authoritative when the write is lost.
	_ = c.client.Set(ctx, entryKey(e.ID), raw, c.ttl).Err()
}
