package ratelimit

import (
	"ShareLens/internal/pkg/consts"
	"context"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter 按来源身份限制窗口内的请求次数
type Limiter interface {
	Allow(ctx context.Context, identity string) bool
}

// windowScript 自增计数，首次创建或丢失过期时间时设置窗口 TTL，保证原子性
var windowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter 固定窗口计数器，窗口过期由 Redis TTL 负责
type RedisLimiter struct {
	rdb     redis.Scripter
	window  time.Duration
	ceiling int64
}

func NewRedisLimiter(rdb redis.Scripter, window time.Duration, ceiling int) *RedisLimiter {
	return &RedisLimiter{
		rdb:     rdb,
		window:  window,
		ceiling: int64(ceiling),
	}
}

// Allow 存储不可用时放行
func (l *RedisLimiter) Allow(ctx context.Context, identity string) bool {
	count, err := windowScript.Run(ctx, l.rdb, []string{consts.RateLimitKey + identity}, l.window.Milliseconds()).Int64()
	if err != nil {
		log.WarnContext(ctx, "rate limiter unavailable, failing open", "err", err)
		return true
	}
	return count <= l.ceiling
}
