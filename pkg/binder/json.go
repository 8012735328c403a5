package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

// DefaultMaxJSONSize matches the gateway's request body limit.
const DefaultMaxJSONSize int64 = 50 << 20

type config struct {
	maxSize int64
	strict  bool
}

// Option configures JSON binding.
type Option func(*config)

// WithMaxSize overrides the body size limit.
func WithMaxSize(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// Strict rejects unknown fields.
func Strict() Option {
	return func(c *config) { c.strict = true }
}

// JSON decodes the request body into v.
//
// Returned errors carry an httpjson.HTTPError (400, 413 or 415), so an error
// sink answers them as client errors.
func JSON(r *http.Request, v any, opts ...Option) error {
	cfg := config{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return errors.Join(httpjson.ErrUnsupportedMediaType,
				fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct))
		}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return errors.Join(httpjson.NewHTTPError(http.StatusBadRequest, "Request body is required"),
			fmt.Errorf("%w: empty body", ErrFailedToParseJSON))
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
	if err != nil {
		return errors.Join(httpjson.ErrBadRequest, ErrFailedToParseJSON, err)
	}
	if int64(len(body)) > cfg.maxSize {
		return errors.Join(httpjson.ErrRequestEntityTooLarge,
			fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize))
	}
	if len(body) == 0 {
		return errors.Join(httpjson.NewHTTPError(http.StatusBadRequest, "Request body is required"),
			fmt.Errorf("%w: empty body", ErrFailedToParseJSON))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if cfg.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return errors.Join(httpjson.NewHTTPError(http.StatusBadRequest, "Invalid JSON body"),
			fmt.Errorf("%w: %w", ErrFailedToParseJSON, err))
	}
	if dec.More() {
		return errors.Join(httpjson.NewHTTPError(http.StatusBadRequest, "Invalid JSON body"),
			fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON))
	}
	return nil
}
