package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/authgate/pkg/logger"
)

// Client is the subset of *mongo.Client the manager relies on.
type Client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// Dialer establishes a new client. It must return a client that has already
// answered a ping, or an error.
type Dialer func(ctx context.Context, cfg Config) (Client, error)

// Observer receives connection lifecycle events.
type Observer interface {
	CacheHit()
	ConnectAttempt()
	ConnectResult(err error, took time.Duration)
	Teardown()
	StateChanged(s State)
}

const connectKey = "connect"

// Manager owns at most one shared database client and answers connect-or-reuse
// requests. Construct one per process and pass it to every component that needs
// the database.
type Manager struct {
	cfg      Config
	dial     Dialer
	observer Observer
	log      *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	client Client
	state  State
	gen    uint64 // bumped by Close; an attempt started under an older gen is discarded
}

// Option configures the Manager.
type Option func(*Manager)

// WithDialer replaces the driver dialer. Used by tests and custom transports.
func WithDialer(d Dialer) Option {
	return func(m *Manager) {
		if d != nil {
			m.dial = d
		}
	}
}

// WithObserver registers a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a Manager. No connection is made until Connect is called.
func New(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg.withDefaults(),
		dial:     Dial,
		observer: noopObserver{},
		log:      slog.New(slog.DiscardHandler),
		state:    Disconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.observer == nil {
		m.observer = noopObserver{}
	}
	return m
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// State reports the current readiness of the cached client.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect returns the cached client when it is ready, otherwise it tears down
// any previous client and dials a new one. Concurrent callers share a single
// in-flight attempt.
func (m *Manager) Connect(ctx context.Context) (Client, error) {
	if c, ok := m.cached(); ok {
		m.observer.CacheHit()
		return c, nil
	}

	// The attempt outlives the caller that started it, other callers may be waiting on it.
	attemptCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(connectKey, func() (any, error) {
		return m.connect(attemptCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Client), nil
	}
}

// Ready is Connect without the client, handy for middleware and health checks.
func (m *Manager) Ready(ctx context.Context) error {
	_, err := m.Connect(ctx)
	return err
}

// Database connects if needed and returns the named database, or the configured
// default when name is empty.
func (m *Manager) Database(ctx context.Context, name string) (*mongo.Database, error) {
	c, err := m.Connect(ctx)
	if err != nil {
		return nil, err
	}
	mc, ok := c.(*mongo.Client)
	if !ok {
		return nil, ErrUnsupportedClient
	}
	if name == "" {
		name = m.cfg.Database
	}
	return mc.Database(name), nil
}

// Check pings the cached client. A failed ping marks the state disconnected but
// keeps the client so the next Connect tears it down before dialling again.
func (m *Manager) Check(ctx context.Context) error {
	m.mu.Lock()
	c, state := m.client, m.state
	m.mu.Unlock()

	if c == nil || state != Connected {
		return ErrNotConnected
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		m.mu.Lock()
		if m.client == c {
			m.setState(Disconnected)
		}
		m.mu.Unlock()
		m.log.WarnContext(ctx, "mongo ping failed, connection marked stale",
			logger.Error(err),
			logger.Component("mongo"),
		)
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

// Close disconnects the cached client. It is a no-op when nothing was ever
// connected and is safe to call more than once. A connect still in flight when
// Close runs disconnects its client instead of caching it.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	c := m.client
	m.client = nil
	if c != nil {
		m.setState(Disconnecting)
	}
	m.mu.Unlock()

	if c == nil {
		return nil
	}

	err := m.teardown(ctx, c)

	m.mu.Lock()
	if m.client == nil {
		m.setState(Disconnected)
	}
	m.mu.Unlock()

	if err == nil {
		m.log.InfoContext(ctx, "mongo connection closed", logger.Component("mongo"))
	}
	return err
}

func (m *Manager) cached() (Client, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Connected && m.client != nil {
		return m.client, true
	}
	return nil, false
}

func (m *Manager) connect(ctx context.Context) (Client, error) {
	m.mu.Lock()
	// A flight that finished between the cache check and DoChan already did the work.
	if m.state == Connected && m.client != nil {
		c := m.client
		m.mu.Unlock()
		return c, nil
	}
	gen := m.gen
	stale := m.client
	m.client = nil
	m.setState(Connecting)
	m.mu.Unlock()

	if stale != nil {
		if err := m.teardown(ctx, stale); err != nil {
			m.log.WarnContext(ctx, "failed to disconnect stale mongo client",
				logger.Error(err),
				logger.Component("mongo"),
			)
		}
	}

	m.observer.ConnectAttempt()
	start := time.Now()

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ServerSelectionTimeout)
	defer cancel()

	c, err := m.dial(dialCtx, m.cfg)
	took := time.Since(start)
	m.observer.ConnectResult(err, took)

	if err != nil {
		m.mu.Lock()
		m.client = nil
		m.setState(Disconnected)
		m.mu.Unlock()

		m.log.ErrorContext(ctx, "mongo connection failed",
			logger.Error(err),
			logger.Duration(took),
			logger.Component("mongo"),
		)
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, err)
	}

	m.mu.Lock()
	if m.gen != gen {
		m.setState(Disconnected)
		m.mu.Unlock()

		if derr := m.teardown(ctx, c); derr != nil {
			m.log.WarnContext(ctx, "failed to disconnect mongo client dialled after close",
				logger.Error(derr),
				logger.Component("mongo"),
			)
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, ErrClosed)
	}
	m.client = c
	m.setState(Connected)
	m.mu.Unlock()

	m.log.InfoContext(ctx, "mongo connected",
		logger.Duration(took),
		logger.Component("mongo"),
	)
	return c, nil
}

func (m *Manager) teardown(ctx context.Context, c Client) error {
	m.observer.Teardown()
	if err := c.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}

// setState must be called with mu held.
func (m *Manager) setState(s State) {
	m.state = s
	m.observer.StateChanged(s)
}

type noopObserver struct{}

func (noopObserver) CacheHit()                          {}
func (noopObserver) ConnectAttempt()                    {}
func (noopObserver) ConnectResult(error, time.Duration) {}
func (noopObserver) Teardown()                          {}
func (noopObserver) StateChanged(State)                 {}
