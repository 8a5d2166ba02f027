package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ammario/tlru"
	"github.com/redis/go-redis/v9"
)

// Store 缓存后端，只负责按 TTL 存取字节
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore 基于 Redis 的缓存后端，过期由 Redis 负责
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// MemoryStore 进程内缓存，按条目数淘汰
type MemoryStore struct {
	c *tlru.Cache[string, []byte]
}

func NewMemoryStore(maxItems int) *MemoryStore {
	return &MemoryStore{
		c: tlru.New[string](tlru.ConstantCost[[]byte], maxItems),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, _, ok := s.c.Get(key)
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.c.Set(key, value, ttl)
	return nil
}
