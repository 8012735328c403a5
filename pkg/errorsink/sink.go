package errorsink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/authgate/pkg/clientip"
	"github.com/dmitrymomot/authgate/pkg/environment"
	"github.com/dmitrymomot/authgate/pkg/httpjson"
	"github.com/dmitrymomot/authgate/pkg/logger"
	"github.com/dmitrymomot/authgate/pkg/requestid"
)

// GenericMessage is the only text a production client sees for an unexpected error.
const GenericMessage = "Something went wrong!"

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Sink is the terminal handler for errors escaping route handlers.
type Sink struct {
	writer  RecordWriter
	log     *slog.Logger
	redact  []string
	now     func() time.Time
	onError func(ctx context.Context, err error)
}

// Option configures the Sink.
type Option func(*Sink)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRedactedHeaders replaces the headers masked in records.
func WithRedactedHeaders(names ...string) Option {
	return func(s *Sink) { s.redact = names }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// WithErrorHook registers a callback invoked for every unexpected error,
// e.g. to count failures.
func WithErrorHook(fn func(ctx context.Context, err error)) Option {
	return func(s *Sink) { s.onError = fn }
}

// New creates a Sink. A nil writer disables the side-channel record.
func New(writer RecordWriter, opts ...Option) *Sink {
	s := &Sink{
		writer: writer,
		log:    logger.Discard(),
		redact: DefaultRedactedHeaders,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle answers the request for err.
//
// Client errors (a 4xx httpjson.HTTPError) are answered with their own status
// and message. Anything else is logged, recorded through the RecordWriter and
// answered with 500. Outside production the body carries the error text and
// stack; in production it is exactly {"message":"Something went wrong!"}.
func (s *Sink) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	ctx := r.Context()

	if he, ok := httpjson.AsClientError(err); ok {
		s.log.DebugContext(ctx, "client error",
			logger.Error(err),
			logger.Status(he.Code),
			logger.Component("error_sink"),
		)
		_ = httpjson.WriteError(w, he)
		return
	}

	stack := StackOf(err)
	if stack == "" {
		stack = string(debug.Stack())
	}

	s.log.ErrorContext(ctx, "request failed",
		logger.Error(err),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Component("error_sink"),
	)
	if s.onError != nil {
		s.onError(ctx, err)
	}

	if s.writer != nil {
		rec := Record{
			Message:   err.Error(),
			Stack:     stack,
			Timestamp: s.now().UTC(),
			Path:      r.URL.Path,
			Method:    r.Method,
			RequestID: requestid.FromContext(ctx),
			ClientIP:  clientip.GetIPFromContext(ctx),
			Headers:   headerSnapshot(r.Header, s.redact),
		}
		if werr := s.writer.WriteRecord(ctx, rec); werr != nil {
			s.log.WarnContext(ctx, "error record not written",
				logger.Error(errors.Join(ErrWriteRecord, werr)),
				logger.Component("error_sink"),
			)
		}
	}

	if environment.IsProduction(ctx) {
		_ = httpjson.WriteMessage(w, http.StatusInternalServerError, GenericMessage)
		return
	}
	_ = httpjson.Write(w, http.StatusInternalServerError, verboseBody{
		Message: GenericMessage,
		Error:   err.Error(),
		Stack:   stack,
	})
}

type verboseBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Stack   string `json:"stack"`
}

// Wrap adapts an error-returning handler to http.Handler.
func (s *Sink) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.Handle(w, r, err)
		}
	}
}

// Recoverer converts handler panics into errors carrying the panic stack and
// passes them to Handle. http.ErrAbortHandler is re-panicked.
func (s *Sink) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			var err error
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanic, rec)
			}
			s.Handle(w, r, &stackError{err: err, stack: string(debug.Stack())})
		}()

		next.ServeHTTP(w, r)
	})
}
