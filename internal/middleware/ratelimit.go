package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-records/internal/config"
)

// takeScript refills the bucket at KEYS[1] for the whole intervals elapsed
// since its last refill, then takes one token if there is one.
// ARGV: now_ms, capacity, refill, interval_ms, ttl_s.
// Returns {allowed (0|1), tokens left, ms until the next refill}.
var takeScript = redis.NewScript(`
local now, cap, refill, interval, ttl =
    tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp'))
if not tokens or not stamp then
    tokens, stamp = cap, now
end

local n = math.floor(math.max(0, now - stamp) / interval)
if n > 0 then
    tokens = math.min(cap, tokens + n * refill)
    stamp = stamp + n * interval
end

local allowed = 0
if tokens > 0 then
    tokens = tokens - 1
    allowed = 1
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], ttl)

local wait = 0
if allowed == 0 then
    wait = math.max(0, interval - (now - stamp))
end
return {allowed, tokens, wait}
`)

// bucket is one token bucket shape.  Reads and writes use separate shapes.
type bucket struct {
	capacity int
	refill   int
	interval time.Duration
	ttl      time.Duration
}

type verdict struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

func (b bucket) take(ctx context.Context, rdb *redis.Client, key string) (verdict, error) {
	vals, err := takeScript.Run(ctx, rdb, []string{key},
		time.Now().UnixMilli(),
		b.capacity,
		b.refill,
		b.interval.Milliseconds(),
		int64(b.ttl/time.Second),
	).Int64Slice()
	if err != nil {
		return verdict{}, err
	}
	if len(vals) != 3 {
		return verdict{}, fmt.Errorf("token bucket script returned %d values", len(vals))
	}
	return verdict{
		allowed:    vals[0] == 1,
		remaining:  vals[1],
		retryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits requests per client and collection.  Writes
// (POST, PUT, PATCH, DELETE) draw from their own, smaller bucket so a burst
// of mutations cannot starve reads of the same collection.  Redis errors
// let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	reads := bucket{capacity: cfg.Capacity, refill: cfg.RefillTokens, interval: cfg.RefillInterval, ttl: cfg.TTL}
	writes := reads
	writes.capacity = cfg.WriteCapacity

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b, kind := reads, "r"
			if isWrite(c.Request().Method) {
				b, kind = writes, "w"
			}
			key := rateKey(cfg, c, kind)

			v, err := b.take(c.Request().Context(), rdb, key)
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] %s: %v", key, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(b.capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if v.allowed {
				return next(c)
			}

			secs := retryAfterSeconds(v.retryAfter)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				c.Logger().Infof("[ratelimit] blocked %s retry=%ds", key, secs)
			}
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// retryAfterSeconds rounds up so clients never retry early.
func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// collection is the first segment of the matched route, e.g. "purchases"
// for /purchases/:att_id/:tic_id.  Item and lookup routes share their
// collection's bucket.
func collection(c echo.Context) string {
	p := strings.TrimPrefix(c.Path(), "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "unmatched"
	}
	return p
}

// rateKey identifies the bucket a request draws from.  kind separates the
// read and write buckets.
func rateKey(cfg config.RateLimitConfig, c echo.Context, kind string) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := []string{cfg.Prefix, kind}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "collection":
		parts = append(parts, "col", collection(c))
	default: // "ip_collection"
		parts = append(parts, "ip", ip, "col", collection(c))
	}
	return strings.Join(parts, ":")
}
