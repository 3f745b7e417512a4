package idempotency

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisGuard_ClaimOnce(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	guard := NewRedisGuard(client, time.Minute)
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	ok, err := guard.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisGuard_ReleaseAllowsRetry(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	guard := NewRedisGuard(client, time.Minute)
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	ok, err := guard.Claim(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, guard.Release(ctx, key))

	ok, err = guard.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuard_ConcurrentClaims(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	guard := NewRedisGuard(client, time.Minute)
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	var wg sync.WaitGroup
	var winners int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := guard.Claim(ctx, key); err == nil && ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}

func TestNop(t *testing.T) {
	var guard Guard = Nop{}

	for i := 0; i < 2; i++ {
		ok, err := guard.Claim(context.Background(), "same-key")
		assert.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, guard.Release(context.Background(), "same-key"))
}
