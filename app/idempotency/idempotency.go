package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:transaction:"

// Guard makes sure a client supplied key is acted upon at most once.
type Guard interface {
	// Claim reports whether the key was free and is now held by the caller.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

type RedisGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, keyPrefix+key, 1, g.ttl).Result()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}

// Nop accepts every key. It is used when Redis is not configured.
type Nop struct{}

func (Nop) Claim(context.Context, string) (bool, error) { return true, nil }

func (Nop) Release(context.Context, string) error { return nil }
