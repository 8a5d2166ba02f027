package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb, 60*time.Second, 10), mr
}

func TestRedisLimiter_WindowBoundary(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.True(t, limiter.Allow(ctx, "caller-a"), "call %d should pass", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "caller-a"), "11th call within the window")
	assert.True(t, limiter.Allow(ctx, "caller-b"), "other callers keep their own window")

	mr.FastForward(61 * time.Second)
	assert.True(t, limiter.Allow(ctx, "caller-a"), "window elapsed")
}

func TestRedisLimiter_WindowHasTTL(t *testing.T) {
	limiter, mr := newTestLimiter(t)

	require.True(t, limiter.Allow(context.Background(), "caller-a"))

	ttl := mr.TTL("share:ratelimit:caller-a")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 60*time.Second)
}

func TestRedisLimiter_ConcurrentCallersNeverExceedCeiling(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		allowed atomic.Int64
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(ctx, "caller-a") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, allowed.Load())
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	limiter := NewRedisLimiter(rdb, 60*time.Second, 1)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(context.Background(), "caller-a"))
	}
}
