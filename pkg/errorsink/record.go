package errorsink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Redacted replaces the value of sensitive headers in a Record.
const Redacted = "[REDACTED]"

// DefaultRedactedHeaders are never written to a Record verbatim.
var DefaultRedactedHeaders = []string{"Authorization", "Cookie"}

// Record describes one failed request for post-mortem inspection.
type Record struct {
	Message   string            `json:"message"`
	Stack     string            `json:"stack,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Path      string            `json:"path"`
	Method    string            `json:"method"`
	RequestID string            `json:"request_id,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Headers   map[string]string `json:"headers"`
}

// RecordWriter persists records outside the log stream.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec Record) error
}

// RecordWriterFunc adapts a function to RecordWriter.
type RecordWriterFunc func(ctx context.Context, rec Record) error

func (f RecordWriterFunc) WriteRecord(ctx context.Context, rec Record) error { return f(ctx, rec) }

func headerSnapshot(h http.Header, redact []string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	for _, k := range redact {
		k = http.CanonicalHeaderKey(k)
		if _, ok := out[k]; ok {
			out[k] = Redacted
		}
	}
	return out
}

// FileWriter writes records as indented JSON to a fixed path. By default each
// record replaces the previous one; WithAppend keeps a JSON-lines history.
type FileWriter struct {
	path   string
	append bool
	mu     sync.Mutex
}

// FileOption configures a FileWriter.
type FileOption func(*FileWriter)

// WithAppend appends records instead of overwriting the file.
func WithAppend() FileOption {
	return func(w *FileWriter) { w.append = true }
}

// NewFileWriter returns a writer targeting path.
func NewFileWriter(path string, opts ...FileOption) *FileWriter {
	w := &FileWriter{path: path}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the target file path.
func (w *FileWriter) Path() string { return w.path }

// WriteRecord implements RecordWriter.
func (w *FileWriter) WriteRecord(_ context.Context, rec Record) error {
	if w.path == "" {
		return errors.New("empty record path")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	if w.append {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0o644)
}
