package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-service/internal/shared/telemetry"
	"resume-service/internal/shared/util"
)

// tokenBucketScript refills and spends one token atomically. Tokens are stored as strings so
// fractional refills survive the Lua to Redis integer conversion.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local rate_per_ms = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_ms')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = burst
  last = now_ms
end

local elapsed = now_ms - last
if elapsed < 0 then
  elapsed = 0
end
tokens = math.min(burst, tokens + elapsed * rate_per_ms)

local allowed = 0
local retry_ms = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  retry_ms = math.ceil((1 - tokens) / rate_per_ms)
end

redis.call('HMSET', key, 'tokens', tostring(tokens), 'last_ms', tostring(now_ms))
redis.call('EXPIRE', key, ttl)
return {allowed, retry_ms}
`)

// RedisLimiter shares token buckets between replicas through Redis.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedisLimiter constructs a RedisLimiter. now may be nil.
func NewRedisLimiter(client redis.Scripter, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{client: client, prefix: "ratelimit:", now: now}
}

// Allow spends one token. Redis failures let the request through.
func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	ttl := int(math.Ceil(float64(rule.Burst)/rule.Rate)) + 1
	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + util.HashKey(key)},
		l.now().UnixMilli(),
		rule.Burst,
		strconv.FormatFloat(rule.Rate/1000.0, 'f', -1, 64),
		ttl,
	).Int64Slice()
	if err != nil || len(res) != 2 {
		telemetry.Warn("ratelimit.redis_error", map[string]any{"key": key, "error": err})
		return true, 0
	}
	if res[0] == 1 {
		return true, 0
	}
	return false, time.Duration(res[1]) * time.Millisecond
}

var _ Limiter = (*RedisLimiter)(nil)
