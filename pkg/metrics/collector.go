package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/authgate/pkg/mongo"
)

const namespace = "authgate"

// Collector owns a private registry with the gateway's connection and request
// metrics. It implements mongo.Observer.
type Collector struct {
	registry *prometheus.Registry

	connectAttempts *prometheus.CounterVec
	connectDuration prometheus.Histogram
	cacheHits       prometheus.Counter
	teardowns       prometheus.Counter
	state           prometheus.Gauge
	requests        *prometheus.CounterVec
	handlerErrors   prometheus.Counter
}

var _ mongo.Observer = (*Collector)(nil)

// New creates a Collector. Go runtime and process collectors are registered
// alongside the gateway metrics.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mongo",
			Name:      "connect_attempts_total",
			Help:      "Connection attempts by result.",
		}, []string{"result"}),
		connectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mongo",
			Name:      "connect_duration_seconds",
			Help:      "Time spent establishing a connection.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mongo",
			Name:      "cache_hits_total",
			Help:      "Requests served by the cached connection.",
		}),
		teardowns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mongo",
			Name:      "teardowns_total",
			Help:      "Connections disconnected by the gateway.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mongo",
			Name:      "state",
			Help:      "Connection state code: 0 disconnected, 1 connected, 2 connecting, 3 disconnecting.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		handlerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "handler_errors_total",
			Help:      "Unexpected handler errors answered by the error sink.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.connectAttempts,
		c.connectDuration,
		c.cacheHits,
		c.teardowns,
		c.state,
		c.requests,
		c.handlerErrors,
	)
	return c
}

// Registry exposes the private registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (c *Collector) CacheHit() { c.cacheHits.Inc() }
func (c *Collector) Teardown() { c.teardowns.Inc() }

// ConnectAttempt is a no-op: attempts are counted with their outcome in
// ConnectResult.
func (c *Collector) ConnectAttempt() {}

func (c *Collector) ConnectResult(err error, took time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.connectAttempts.WithLabelValues(result).Inc()
	c.connectDuration.Observe(took.Seconds())
}

func (c *Collector) StateChanged(s mongo.State) {
	c.state.Set(float64(s))
}

// HandlerError counts an unexpected handler error. Its signature matches
// errorsink.WithErrorHook.
func (c *Collector) HandlerError(context.Context, error) {
	c.handlerErrors.Inc()
}

// Middleware counts requests by method and final status.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(methodLabel(r.Method), strconv.Itoa(status)).Inc()
	})
}

// methodLabel keeps the label set bounded: non-standard methods collapse to OTHER.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	default:
		return "OTHER"
	}
}
