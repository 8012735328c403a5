package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/authgate/pkg/clientip"
	"github.com/dmitrymomot/authgate/pkg/httpjson"
	"github.com/dmitrymomot/authgate/pkg/logger"
)

// maxKeyLength is the maximum allowed length for a rate limit key.
const maxKeyLength = 64

// ErrTooManyRequests is the client error answered to denied requests.
var ErrTooManyRequests = httpjson.NewHTTPError(http.StatusTooManyRequests, "Too many requests")

// KeyFunc extracts a rate limit key from the request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by the client address, preferring the value stored
// by clientip.Middleware.
func ByClientIP(r *http.Request) string {
	if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// Composite combines multiple key functions into one.
// Long keys (>64 chars) are hashed using FNV-1a.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}

type middlewareConfig struct {
	log *slog.Logger
	now func() time.Time
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithLogger sets the logger for store failures.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware limits requests per key. Requests with an empty key and requests
// arriving while the store fails are let through.
func Middleware(tb *Bucket, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{log: logger.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := tb.Allow(r.Context(), key)
			if err != nil {
				cfg.log.WarnContext(r.Context(), "rate limit check skipped",
					logger.Error(err),
					logger.Component("ratelimiter"),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retry := result.RetryAfter(cfg.now()); retry > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
				}
				_ = httpjson.WriteError(w, ErrTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
