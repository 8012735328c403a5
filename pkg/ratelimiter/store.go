package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// ConsumeTokens refills the bucket and takes tokens when enough are left.
	// remaining is the balance after the request; a negative value means the
	// request was denied and nothing was consumed.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// refill applies the elapsed refill intervals, capped at capacity, and
// returns the new balance and refill time.
func refill(tokens int, last, now time.Time, cfg Config) (int, time.Time) {
	elapsed := now.Sub(last)
	if elapsed < cfg.RefillInterval {
		return tokens, last
	}
	// Cap intervals so a long idle bucket cannot overflow.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(elapsed/cfg.RefillInterval), maxIntervals))
	return min(tokens+intervals*cfg.RefillRate, cfg.Capacity), now
}
