// Package ratelimiter provides token bucket rate limiting with pluggable
// storage and HTTP middleware.
//
// A Bucket allows bursts up to Capacity and refills RefillRate tokens every
// RefillInterval. Requests that would overdraw the bucket are denied without
// consuming tokens.
//
// Two stores are provided: MemoryStore for a single process and RedisStore,
// which keeps buckets in Redis so several gateway instances share one budget.
//
// # HTTP Middleware
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP))
//
// Denied requests get 429 {"message":"Too many requests"} with Retry-After and
// X-RateLimit-* headers. A failing store lets the request through and logs a
// warning.
package ratelimiter
