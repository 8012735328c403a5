package requestlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authgate/pkg/logger"
)

const (
	// DefaultThreshold is the string length above which a recognised field is elided.
	DefaultThreshold = 100
	// DefaultMaxBodySize caps how much of a body is buffered for logging.
	DefaultMaxBodySize int64 = 50 << 20
)

// DefaultFields are the body fields that usually carry inline base64 images.
var DefaultFields = []string{"profileImage", "image", "avatar", "photo", "picture"}

type config struct {
	threshold   int
	fields      []string
	maxBodySize int64
}

// Option configures the observer.
type Option func(*config)

// WithThreshold sets the length above which recognised fields are elided.
func WithThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithFields replaces the recognised field names.
func WithFields(fields ...string) Option {
	return func(c *config) {
		if len(fields) > 0 {
			c.fields = slices.Clone(fields)
		}
	}
}

// WithMaxBodySize caps the number of body bytes buffered for logging.
// Larger bodies are logged by size only and passed downstream intact.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// Middleware logs every request. For POST and PUT requests with a JSON body it
// also logs a shallow copy of the body with large image fields elided. The body
// is restored for downstream handlers and the response is never altered.
func Middleware(log *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	cfg := &config{
		threshold:   DefaultThreshold,
		fields:      DefaultFields,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			attrs := []any{
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Component("requestlog"),
			}
			if hasBody(r) {
				attrs = append(attrs, cfg.bodyAttr(r))
			}
			log.InfoContext(ctx, "request", attrs...)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.DebugContext(ctx, "request completed",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(status),
				logger.Duration(time.Since(start)),
				logger.Component("requestlog"),
			)
		})
	}
}

func hasBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return false
	}
	return r.Body != nil && r.Body != http.NoBody
}

// bodyAttr buffers the body, puts it back on the request and describes it.
func (c *config) bodyAttr(r *http.Request) slog.Attr {
	buf, err := io.ReadAll(io.LimitReader(r.Body, c.maxBodySize+1))
	// Whatever was not consumed keeps flowing after the buffered prefix.
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), r.Body), Closer: r.Body}
	if err != nil {
		return slog.String("body_error", err.Error())
	}

	size := slog.Int("body_bytes", len(buf))
	if int64(len(buf)) > c.maxBodySize || !isJSON(r) {
		return size
	}

	var body map[string]any
	if err := json.Unmarshal(buf, &body); err != nil {
		return size
	}
	return slog.Any("body", Elide(body, c.fields, c.threshold))
}

type readCloser struct {
	io.Reader
	io.Closer
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// Elide returns a shallow copy of body in which every listed field holding a
// string longer than threshold is replaced by "[base64 data, length: N]".
// The input map is never modified.
func Elide(body map[string]any, fields []string, threshold int) map[string]any {
	if body == nil {
		return nil
	}
	out := maps.Clone(body)
	for _, f := range fields {
		if s, ok := out[f].(string); ok && len(s) > threshold {
			out[f] = Placeholder(len(s))
		}
	}
	return out
}

// Placeholder is the logged stand-in for an elided value of length n.
func Placeholder(n int) string {
	return fmt.Sprintf("[base64 data, length: %d]", n)
}
