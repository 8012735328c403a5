package readiness

import (
	"context"
	"log/slog"
	"maps"
	"net/http"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
	"github.com/dmitrymomot/authgate/pkg/logger"
)

// DefaultMessage is the failure message used when none is configured.
const DefaultMessage = "Database connection failed"

// CheckFunc reports whether a dependency is ready for the request.
type CheckFunc func(ctx context.Context) error

// SkipFunc decides whether the gate is bypassed for a request.
type SkipFunc func(r *http.Request) bool

type config struct {
	message string
	fields  map[string]any
	skip    SkipFunc
	log     *slog.Logger
}

// Option configures the gate.
type Option func(*config)

// WithMessage sets the "message" of the failure body.
func WithMessage(msg string) Option {
	return func(c *config) {
		if msg != "" {
			c.message = msg
		}
	}
}

// WithField adds an extra top-level field to the failure body.
// The "message" and "error" keys cannot be overridden.
func WithField(key string, value any) Option {
	return func(c *config) {
		if key == "message" || key == "error" {
			return
		}
		c.fields[key] = value
	}
}

// WithSkip bypasses the check for matching requests.
func WithSkip(fn SkipFunc) Option {
	return func(c *config) { c.skip = fn }
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware runs check before every request. On success the request passes
// through untouched. On failure it answers 500 with
// {"message": <message>, "error": <cause>, ...fields} and next is never called.
func Middleware(check CheckFunc, opts ...Option) func(http.Handler) http.Handler {
	if check == nil {
		panic("readiness: nil check")
	}

	cfg := &config{
		message: DefaultMessage,
		fields:  make(map[string]any),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skip != nil && cfg.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if err := check(ctx); err != nil {
				cfg.log.ErrorContext(ctx, "readiness check failed",
					logger.Error(err),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Component("readiness"),
				)

				body := make(map[string]any, len(cfg.fields)+2)
				maps.Copy(body, cfg.fields)
				body["message"] = cfg.message
				body["error"] = err.Error()
				_ = httpjson.Write(w, http.StatusInternalServerError, body)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
