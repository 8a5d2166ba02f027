package redis

import (
	"ShareLens/internal/api/config"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	prev := Rdb
	t.Cleanup(func() { Rdb = prev })

	require.NoError(t, InitRedis(config.RedisConfig{Addr: mr.Addr(), PoolSize: 2}))
	t.Cleanup(func() { _ = Close() })

	ok, err := TryLock(context.Background(), "share:rollup:reconcile:lock", "a", 0, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	renamed, err := Rename(context.Background(), "share:rollup:dirty", "share:rollup:dirty:processing")
	require.NoError(t, err)
	assert.False(t, renamed)
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	prev := Rdb
	t.Cleanup(func() { Rdb = prev })

	err := InitRedis(config.RedisConfig{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
	assert.Equal(t, prev, Rdb)
}
