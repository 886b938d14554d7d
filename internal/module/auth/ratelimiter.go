package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter provides sliding-window rate limiting backed by Redis.
type RateLimiter struct {
	redis redis.UniversalClient
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(redis redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

// CheckRPM checks if the request is allowed under the RPM (requests per minute) limit.
// The key identifies the rate-limited subject, e.g. "login:<client-ip>".
func (r *RateLimiter) CheckRPM(ctx context.Context, key string, limit int) (*RateLimitResult, error) {
	return r.checkLimit(ctx, fmt.Sprintf("ratelimit:rpm:%s", key), int64(limit), time.Minute)
}

// checkLimit performs a sliding window rate limit check.
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()
	windowEnd := now.UnixNano()

	// Use Lua script for atomic operations
	script := redis.NewScript(`
		local key = KEYS[1]
		local window_start = tonumber(ARGV[1])
		local window_end = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local expiry = tonumber(ARGV[4])

		-- Remove old entries
		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		-- Count current requests in window
		local current = redis.call('ZCARD', key)

		-- Check if limit would be exceeded
		if current + 1 > limit then
			return {0, limit - current, expiry}
		end

		-- Add new entry
		redis.call('ZADD', key, window_end, window_end)
		redis.call('PEXPIRE', key, expiry)

		return {1, limit - current - 1, expiry}
	`)

	result, err := script.Run(ctx, r.redis, []string{key},
		windowStart,
		windowEnd,
		limit,
		int64(window.Milliseconds())+60000, // Add buffer for cleanup
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, _ := strconv.ParseInt(fmt.Sprint(result[0]), 10, 64)
	remaining, _ := strconv.ParseInt(fmt.Sprint(result[1]), 10, 64)
	resetAt := now.Add(window).Unix()

	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}

// GetRPMUsage returns the current usage count in the window for a key.
func (r *RateLimiter) GetRPMUsage(ctx context.Context, key string) (int64, error) {
	redisKey := fmt.Sprintf("ratelimit:rpm:%s", key)
	now := time.Now()
	windowStart := now.Add(-time.Minute).UnixNano()

	// Remove old entries first
	r.redis.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprint(windowStart))

	return r.redis.ZCard(ctx, redisKey).Result()
}

// Reset clears the rate limit counters for a key.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.redis.Del(ctx, fmt.Sprintf("ratelimit:rpm:%s", key)).Err()
}
