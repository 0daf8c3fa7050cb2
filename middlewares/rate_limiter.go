package middlewares

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// tokenBucketScript refills and takes one token atomically. It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + intervals * interval_ms
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)
	return { allowed, tokens, retry_after_ms }
`)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP. With a Redis client the bucket
// is shared by every API instance; otherwise, or when Redis errors, each
// process keeps its own buckets.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	prefix string
	rdb    *redis.Client

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	message  string
}

func NewRateLimiter(rps float64, burst int, rdb *redis.Client) *RateLimiter {
	if rps <= 0 {
		rps = 20
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		prefix:   "rl:api",
		rdb:      rdb,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		message:  "Too many requests, please slow down",
	}
}

// NewStrictRateLimiter allows 5 attempts per minute per IP, for login and
// registration.
func NewStrictRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	rl := NewRateLimiter(5.0/60.0, 5, rdb)
	rl.prefix = "rl:auth"
	rl.message = "Too many attempts, please wait a moment"
	return rl.RateLimit()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.allow(c.Request.Context(), c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			utils.RespondError(c, utils.TooManyRequests("%s", rl.message))
			return
		}
		c.Next()
	}
}

// allow reports whether key may proceed and, if not, the seconds to wait.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int) {
	if rl.rdb != nil {
		allowed, retry, err := rl.allowRedis(ctx, key)
		if err == nil {
			return allowed, retry
		}
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Rate limiter falling back to memory: %v", err)
		}
	}
	return rl.allowLocal(key)
}

func (rl *RateLimiter) interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(rl.limit))
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (bool, int, error) {
	intervalMs := rl.interval().Milliseconds()
	if intervalMs < 1 {
		intervalMs = 1
	}
	vals, err := tokenBucketScript.Run(ctx, rl.rdb,
		[]string{rl.prefix + ":" + key},
		time.Now().UnixMilli(), rl.burst, intervalMs, int64(rl.ttl/time.Second),
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(vals) != 3 {
		return false, 0, fmt.Errorf("unexpected rate limit reply %v", vals)
	}
	return vals[0] == 1, int(math.Ceil(float64(vals[2]) / 1000)), nil
}

func (rl *RateLimiter) allowLocal(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	for k, other := range rl.visitors {
		if now.Sub(other.lastSeen) > rl.ttl {
			delete(rl.visitors, k)
		}
	}

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, int(math.Ceil(rl.interval().Seconds()))
}
