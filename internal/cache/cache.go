package cache

import (
	"context"
	"time"
)

// Cache is the JSON read-through cache sitting in front of report lookups;
// keys are owned by the services that set them.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
