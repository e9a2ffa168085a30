package chat

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=cache.go -destination=mock_cache_test.go -package=chat

var ErrCacheMiss = errors.New("cache miss")

// RoomCache keeps room contexts between requests. Get returns ErrCacheMiss
// when the room is not cached.
type RoomCache interface {
	Get(ctx context.Context, roomID uint) (*RoomContext, error)
	Set(ctx context.Context, rc *RoomContext, ttl time.Duration) error
	Delete(ctx context.Context, roomID uint) error
}
