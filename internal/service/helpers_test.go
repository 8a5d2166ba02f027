package service

import (
	"ShareLens/internal/api/config"
	"ShareLens/internal/pkg/content"
	"ShareLens/internal/pkg/database"
	"ShareLens/internal/pkg/redis"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:      database.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "share.db") + "?_time_format=sqlite",
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: 30,
		AutoMigrate: migrate,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// newTestRedis 替换全局客户端为 miniredis
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	prev := redis.Rdb
	redis.Rdb = rdb
	t.Cleanup(func() {
		redis.Rdb = prev
		_ = rdb.Close()
	})
	return mr, rdb
}

// stubResolver 内容服务替身
type stubResolver struct {
	known map[uint64]*content.Info
	delay time.Duration
	err   error
}

func (r *stubResolver) wait(ctx context.Context) error {
	if r.delay == 0 {
		return nil
	}
	select {
	case <-time.After(r.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *stubResolver) Exists(ctx context.Context, id uint64) (bool, error) {
	if err := r.wait(ctx); err != nil {
		return false, err
	}
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.known[id]
	return ok, nil
}

func (r *stubResolver) Lookup(ctx context.Context, ids []uint64) (map[uint64]*content.Info, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make(map[uint64]*content.Info)
	for _, id := range ids {
		if info, ok := r.known[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (r *stubResolver) ResolveURL(_ context.Context, rawURL string) (uint64, error) {
	return content.IDFromURL(rawURL), nil
}
