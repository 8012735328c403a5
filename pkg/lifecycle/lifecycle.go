package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/authgate/pkg/logger"
)

// State is the process startup state.
type State int

const (
	Init State = iota
	Connecting
	Listening
	Failed
	Stopped
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Connecting:
		return "connecting"
	case Listening:
		return "listening"
	case Failed:
		return "failed"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Connector is the database dependency that must be ready before listening.
type Connector interface {
	Ready(ctx context.Context) error
	Close(ctx context.Context) error
}

// Runner serves HTTP until shutdown. httpserver.Server satisfies it.
type Runner interface {
	Run(ctx context.Context, handler http.Handler) error
}

// Manager sequences startup and shutdown: connect first, then listen; on exit
// stop the server, then release the connection.
type Manager struct {
	conn         Connector
	srv          Runner
	log          *slog.Logger
	closeTimeout time.Duration
	signals      []os.Signal

	mu      sync.Mutex
	state   State
	started bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithCloseTimeout bounds how long shutdown waits for the connection to close.
func WithCloseTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.closeTimeout = d
		}
	}
}

// WithSignals replaces the signals that stop the process. The default is
// SIGINT and SIGTERM.
func WithSignals(sig ...os.Signal) Option {
	return func(m *Manager) {
		if len(sig) > 0 {
			m.signals = sig
		}
	}
}

// New creates a Manager.
func New(conn Connector, srv Runner, opts ...Option) *Manager {
	m := &Manager{
		conn:         conn,
		srv:          srv,
		log:          logger.Discard(),
		closeTimeout: 10 * time.Second,
		signals:      []os.Signal{os.Interrupt, syscall.SIGTERM},
		state:        Init,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MarkListening records that the listener is open. Wire it as the server's
// start hook.
func (m *Manager) MarkListening(ctx context.Context, addr string) {
	m.setState(Listening)
	m.log.InfoContext(ctx, "gateway listening",
		slog.String("addr", addr),
		logger.Component("lifecycle"),
	)
}

// Run connects to the database and, only once that succeeds, serves handler
// until the server stops. A failed connect returns an error wrapping ErrStartup
// and the listener is never opened. After the server stops the connection is
// closed, bounded by the close timeout, and Run returns nil.
//
// Termination signals are handled from the start: a signal or a cancelled ctx
// during the initial connect releases the connection and returns nil.
func (m *Manager) Run(ctx context.Context, handler http.Handler) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, m.signals...)
	defer stop()

	m.setState(Connecting)
	m.log.InfoContext(ctx, "connecting to database", logger.Component("lifecycle"))

	err := m.conn.Ready(ctx)
	if ctx.Err() != nil {
		m.log.InfoContext(ctx, "shutdown requested before listening", logger.Component("lifecycle"))
		return m.stopBeforeListening(ctx)
	}
	if err != nil {
		m.setState(Failed)
		m.log.ErrorContext(ctx, "initial database connection failed",
			logger.Error(err),
			logger.Component("lifecycle"),
		)
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	runErr := m.srv.Run(ctx, handler)
	if runErr != nil && m.State() != Listening {
		m.setState(Failed)
	}

	if err := m.closeConn(ctx); err != nil {
		m.log.WarnContext(ctx, "database connection not closed cleanly",
			logger.Error(err),
			logger.Component("lifecycle"),
		)
	}

	if runErr != nil {
		if m.State() == Failed {
			return fmt.Errorf("%w: %w", ErrStartup, runErr)
		}
		return runErr
	}

	m.setState(Stopped)
	m.log.InfoContext(ctx, "gateway stopped", logger.Component("lifecycle"))
	return nil
}

// stopBeforeListening releases the connection when shutdown arrives before
// the listener opened.
func (m *Manager) stopBeforeListening(ctx context.Context) error {
	if err := m.closeConn(ctx); err != nil {
		m.log.WarnContext(ctx, "database connection not closed cleanly",
			logger.Error(err),
			logger.Component("lifecycle"),
		)
	}
	m.setState(Stopped)
	m.log.InfoContext(ctx, "gateway stopped", logger.Component("lifecycle"))
	return nil
}

func (m *Manager) closeConn(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.closeTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.conn.Close(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Join(ctx.Err(), errors.New("close timed out"))
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
