package cache

import (
	"ShareLens/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// QueryCache 查询结果的 TTL 缓存。写入事件不会使其失效，读取可能滞后最多一个 TTL
type QueryCache struct {
	store Store
}

func NewQueryCache(store Store) *QueryCache {
	return &QueryCache{store: store}
}

// GetOrCompute 命中未过期条目直接返回，否则执行 compute 并写入 now+ttl。
// 同一冷 key 的并发调用可能重复计算；缓存读写失败只记录日志，不影响结果
func GetOrCompute[T any](ctx context.Context, c *QueryCache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "query cache get failed", "key", key, "err", err)
	}
	if ok {
		var cached T
		if err = json.Unmarshal(raw, &cached); err == nil {
			metrics.QueryCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
			return cached, nil
		}
		log.WarnContext(ctx, "query cache entry corrupted", "key", key, "err", err)
	}
	metrics.QueryCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.WarnContext(ctx, "query cache marshal failed", "key", key, "err", err)
		return value, nil
	}
	if err = c.store.Set(ctx, key, data, ttl); err != nil {
		log.WarnContext(ctx, "query cache set failed", "key", key, "err", err)
	}
	return value, nil
}
