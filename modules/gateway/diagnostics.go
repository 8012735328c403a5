package gateway

import (
	"net/http"
	"runtime"
	"time"

	"github.com/dmitrymomot/authgate/pkg/config"
	"github.com/dmitrymomot/authgate/pkg/environment"
	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

// TimestampFormat is RFC 3339 with milliseconds.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

type diagnostics struct {
	cfg     Config
	conn    Connection
	started time.Time
	now     func() time.Time
}

func (d *diagnostics) timestamp() string {
	return d.now().UTC().Format(TimestampFormat)
}

type rootResponse struct {
	Message  string `json:"message"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

func (d *diagnostics) root(w http.ResponseWriter, r *http.Request) {
	if err := d.conn.Ready(r.Context()); err != nil {
		failure(w, RootFailureMessage, err, nil)
		return
	}
	_ = httpjson.Write(w, http.StatusOK, rootResponse{
		Message:  "Auth API is running!",
		Database: d.conn.State().Readiness(),
		Version:  d.cfg.Version,
	})
}

type testResponse struct {
	Message   string `json:"message"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

func (d *diagnostics) test(w http.ResponseWriter, r *http.Request) {
	_ = httpjson.Write(w, http.StatusOK, testResponse{
		Message:   "Server is working!",
		Database:  d.conn.State().Readiness(),
		Timestamp: d.timestamp(),
	})
}

type memoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

type healthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Environment  string            `json:"environment"`
	MongoDB      string            `json:"mongodb"`
	MongoDBState int               `json:"mongodb_state"`
	Uptime       float64           `json:"uptime"`
	Memory       memoryStats       `json:"memory"`
	EnvVars      map[string]string `json:"env_vars"`
}

func (d *diagnostics) health(w http.ResponseWriter, r *http.Request) {
	if err := d.conn.Ready(r.Context()); err != nil {
		failure(w, HealthFailureMessage, err, map[string]any{"mongodb": "disconnected"})
		return
	}

	env := environment.FromContext(r.Context())
	if env == "" {
		env = d.cfg.Environment()
	}
	state := d.conn.State()

	_ = httpjson.Write(w, http.StatusOK, healthResponse{
		Status:       "OK",
		Timestamp:    d.timestamp(),
		Environment:  string(env),
		MongoDB:      state.Readiness(),
		MongoDBState: int(state),
		Uptime:       d.now().Sub(d.started).Seconds(),
		Memory:       readMemory(),
		EnvVars:      config.Presence(PresenceVars...),
	})
}

func readMemory() memoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}

// failure mirrors the readiness gate body for errors raised inside a handler.
func failure(w http.ResponseWriter, msg string, err error, extra map[string]any) {
	body := map[string]any{"message": msg, "error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	_ = httpjson.Write(w, http.StatusInternalServerError, body)
}

