package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces bucket keys.
const DefaultRedisPrefix = "ratelimit:"

// The bucket is a hash {tokens, last}; last is the refill time in ms.
// Mirrors refill and MemoryStore.ConsumeTokens so both stores agree.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local requested = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = capacity
  last = now
end

local intervals = math.floor((now - last) / interval)
if intervals > 0 then
  intervals = math.min(intervals, math.floor(capacity / rate) + 1)
  tokens = math.min(tokens + intervals * rate, capacity)
  last = now
end

local remaining = tokens - requested
if remaining >= 0 then
  tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last', last)
redis.call('PEXPIRE', KEYS[1], (math.floor(capacity / rate) + 1) * interval)
return {remaining, last}
`)

// RedisStore keeps buckets in Redis. The refill and consume step runs as one
// script, so concurrent gateways never double-spend a bucket.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithPrefix overrides DefaultRedisPrefix.
func WithPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a RedisStore over client.
func NewRedisStore(client redis.Scripter, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		s.now().UnixMilli(),
		tokens,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected script reply of %d values", len(res))
	}
	last := time.UnixMilli(res[1])
	return int(res[0]), last.Add(config.RefillInterval), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	cmd, ok := s.client.(redis.Cmdable)
	if !ok {
		return fmt.Errorf("%w: client cannot delete keys", ErrStoreUnavailable)
	}
	return cmd.Del(ctx, s.prefix+key).Err()
}
