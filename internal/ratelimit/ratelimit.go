// Package ratelimit throttles LD API callers with a Redis sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/ldadapter/internal/httputil"
	"github.com/telhawk-systems/ldadapter/internal/metrics"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// slidingWindow trims entries older than the window, then admits the call if
// fewer than limit remain.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[5])

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		redis.call('ZADD', key, now, ARGV[4])
		redis.call('EXPIRE', key, ttl)
		return 1
	end
	return 0
`)

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter connects to redisURL and returns a limiter admitting
// limit calls per key in any window. A disabled limiter admits everything.
func NewRedisRateLimiter(redisURL string, limit int, window time.Duration, disabled bool) (RateLimiter, error) {
	if disabled {
		return &NoOpRateLimiter{}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewWithClient(client, limit, window), nil
}

// NewWithClient wraps an existing client. The limiter owns the client and
// closes it on Close.
func NewWithClient(client *redis.Client, limit int, window time.Duration) RateLimiter {
	return &redisRateLimiter{client: client, limit: int64(limit), window: window}
}

// Allow implements sliding window rate limiting using Redis.
func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - r.window.Nanoseconds()
	ttl := int64(r.window.Seconds()) + 1

	result, err := slidingWindow.Run(ctx, r.client, []string{"ratelimit:" + key},
		now, windowStart, r.limit, uuid.NewString(), ttl).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := result == 1
	if !allowed {
		metrics.RateLimitHits.Inc()
	}
	return allowed, nil
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter always allows requests.
type NoOpRateLimiter struct{}

func (n *NoOpRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (n *NoOpRateLimiter) Close() error {
	return nil
}

// Middleware rejects callers over their budget with a 429 problem. Limiter
// failures let the request through.
func Middleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := httputil.GetClientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter unavailable", "error", err, "ip", ip)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				httputil.WriteProblem(w, http.StatusTooManyRequests, httputil.Problem{
					Type:   httputil.TooManyRequests,
					Title:  "Too Many Requests",
					Detail: "request rate limit exceeded for " + ip,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
