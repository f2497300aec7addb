package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua keeps check-and-increment atomic across instances while preserving
// the fixed-window contract: a denied request never mutates the counter.
var rateLimitScript = redis.NewScript(`
local max = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local reset = redis.call('HGET', KEYS[1], 'reset')
if not reset or now > tonumber(reset) then
	local fresh = now + window
	redis.call('HSET', KEYS[1], 'count', 1, 'reset', fresh)
	redis.call('PEXPIRE', KEYS[1], window)
	return {1, max - 1, fresh}
end
local count = tonumber(redis.call('HGET', KEYS[1], 'count'))
if count >= max then
	return {0, 0, tonumber(reset)}
end
redis.call('HSET', KEYS[1], 'count', count + 1)
return {1, max - count - 1, tonumber(reset)}
`)

// RedisRateLimitStore shares one fixed-window counter per identifier
// across processes. Record expiry rides on PEXPIRE, so Cleanup is a no-op.
type RedisRateLimitStore struct {
	client *redis.Client
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

func (s *RedisRateLimitStore) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) (RateLimitResult, error) {
	key := fmt.Sprintf("rate_limit:%s", identifier)

	values, err := rateLimitScript.Run(ctx, s.client, []string{key},
		maxRequests, window.Milliseconds(), time.Now().UnixMilli()).Int64Slice()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(values) != 3 {
		return RateLimitResult{}, fmt.Errorf("unexpected rate limit script reply: %v", values)
	}

	return RateLimitResult{
		Allowed:   values[0] == 1,
		Limit:     maxRequests,
		Remaining: int(values[1]),
		ResetTime: time.UnixMilli(values[2]),
	}, nil
}

func (s *RedisRateLimitStore) Cleanup(_ context.Context) error {
	return nil
}
