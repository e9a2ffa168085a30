// Package cache provides the Redis-backed room context cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meetup/backend/internal/chat"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "chat:room"

// RedisRoomCache implements chat.RoomCache on Redis.
type RedisRoomCache struct {
	client *redis.Client
	prefix string
}

func NewRedisRoomCache(addr, password string, db int, prefix string) (*RedisRoomCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisRoomCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisRoomCache) key(roomID uint) string {
	return fmt.Sprintf("%s:%d", c.prefix, roomID)
}

func (c *RedisRoomCache) Get(ctx context.Context, roomID uint) (*chat.RoomContext, error) {
	data, err := c.client.Get(ctx, c.key(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, chat.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rc chat.RoomContext
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &rc, nil
}

func (c *RedisRoomCache) Set(ctx context.Context, rc *chat.RoomContext, ttl time.Duration) error {
	data, err := json.Marshal(rc)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.key(rc.RoomID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisRoomCache) Delete(ctx context.Context, roomID uint) error {
	if err := c.client.Del(ctx, c.key(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (c *RedisRoomCache) Close() error {
	return c.client.Close()
}
