package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/authgate/modules/account"
	"github.com/dmitrymomot/authgate/pkg/clientip"
	"github.com/dmitrymomot/authgate/pkg/environment"
	"github.com/dmitrymomot/authgate/pkg/errorsink"
	"github.com/dmitrymomot/authgate/pkg/httpjson"
	"github.com/dmitrymomot/authgate/pkg/httpserver"
	"github.com/dmitrymomot/authgate/pkg/logger"
	"github.com/dmitrymomot/authgate/pkg/metrics"
	"github.com/dmitrymomot/authgate/pkg/mongo"
	"github.com/dmitrymomot/authgate/pkg/ratelimiter"
	"github.com/dmitrymomot/authgate/pkg/readiness"
	"github.com/dmitrymomot/authgate/pkg/requestid"
	"github.com/dmitrymomot/authgate/pkg/requestlog"
)

// Failure messages of the gated routes.
const (
	RootFailureMessage   = "Server error"
	TestFailureMessage   = "Server test failed"
	HealthFailureMessage = "Health check failed"
)

// Connection is the database handle the gateway guards routes with.
// *mongo.Manager satisfies it.
type Connection interface {
	Ready(ctx context.Context) error
	State() mongo.State
}

var _ Connection = (*mongo.Manager)(nil)

// RouterOptions wires the gateway. Connection is required; everything else is
// optional.
type RouterOptions struct {
	Config     Config
	Connection Connection

	// Auth is mounted at /api/auth.
	Auth account.Mountable
	// Fallback answers every path outside /api. Defaults to a JSON 404.
	Fallback http.Handler
	// AuthLimiter, when set, rate limits /api/auth per client address.
	AuthLimiter *ratelimiter.Bucket
	Sink        *errorsink.Sink
	Metrics     *metrics.Collector
	Logger      *slog.Logger

	// Probes back /readyz. Defaults to Connection.Ready.
	Probes []func(context.Context) error

	Started time.Time
	Now     func() time.Time
}

func (o RouterOptions) withDefaults() RouterOptions {
	if o.Connection == nil {
		panic("gateway: nil connection")
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	if o.Sink == nil {
		o.Sink = errorsink.New(nil, errorsink.WithLogger(o.Logger))
	}
	if o.Fallback == nil {
		o.Fallback = http.HandlerFunc(httpjson.NotFound)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Started.IsZero() {
		o.Started = o.Now()
	}
	if len(o.Probes) == 0 {
		o.Probes = []func(context.Context) error{o.Connection.Ready}
	}
	if o.Config.MaxBodySize <= 0 {
		o.Config.MaxBodySize = 50 << 20
	}
	return o
}

// Router builds the gateway route table.
//
// Every request passes requestid, client address resolution, environment,
// CORS, the body size limit, metrics, the request logger and panic recovery,
// in that order. Each route is
// then guarded by its own readiness gate so a database outage is answered with
// the route's failure message:
//
//	GET  /            Server error
//	GET  /api/test    Server test failed
//	GET  /api/health  Health check failed
//	ANY  /api/auth/*  Database connection failed, then the optional rate limit
//	ANY  /api/*       404, or Database connection failed
//	ANY  /*           fallback, or Database connection failed
//
// /metrics, /livez and /readyz are not gated.
func Router(opts RouterOptions) chi.Router {
	opts = opts.withDefaults()
	log := opts.Logger
	h := &diagnostics{
		cfg:     opts.Config,
		conn:    opts.Connection,
		started: opts.Started,
		now:     opts.Now,
	}

	gate := func(msg string, extra ...readiness.Option) func(http.Handler) http.Handler {
		return readiness.Middleware(opts.Connection.Ready, append([]readiness.Option{
			readiness.WithMessage(msg),
			readiness.WithLogger(log),
		}, extra...)...)
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.NewResolver(opts.Config.TrustedIPHeaders...).Middleware,
		environment.Middleware(opts.Config.Environment()),
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.Config.Origins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestid.Header},
			ExposedHeaders:   []string{requestid.Header},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestSize(opts.Config.MaxBodySize),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(
		requestlog.Middleware(log),
		opts.Sink.Recoverer,
	)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/livez", httpserver.ProbeHandler(log))
	r.Get("/readyz", httpserver.ProbeHandler(log, opts.Probes...))

	r.With(gate(RootFailureMessage)).Get("/", h.root)

	r.Route("/api", func(api chi.Router) {
		notFound := gate(readiness.DefaultMessage)(http.HandlerFunc(httpjson.NotFound)).ServeHTTP
		api.NotFound(notFound)
		api.MethodNotAllowed(notFound)

		api.With(gate(TestFailureMessage)).Get("/test", h.test)
		api.With(gate(HealthFailureMessage, readiness.WithField("mongodb", "disconnected"))).Get("/health", h.health)

		if opts.Auth != nil {
			api.Group(func(auth chi.Router) {
				auth.Use(gate(readiness.DefaultMessage))
				if opts.AuthLimiter != nil {
					auth.Use(ratelimiter.Middleware(opts.AuthLimiter, ratelimiter.ByClientIP, ratelimiter.WithLogger(log)))
				}
				auth.Mount("/auth", opts.Auth.Handle())
			})
		}
	})

	fallback := gate(readiness.DefaultMessage)(opts.Fallback).ServeHTTP
	r.NotFound(fallback)
	r.MethodNotAllowed(fallback)

	return r
}
