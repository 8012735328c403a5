package mongo_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrymomot/authgate/pkg/mongo"
)

type fakeClient struct {
	id          int
	pingErr     atomic.Value
	disconnects atomic.Int32
}

func (c *fakeClient) Ping(_ context.Context, _ *readpref.ReadPref) error {
	if err, ok := c.pingErr.Load().(error); ok {
		return err
	}
	return nil
}

func (c *fakeClient) Disconnect(_ context.Context) error {
	c.disconnects.Add(1)
	return nil
}

type fakeDialer struct {
	mu      sync.Mutex
	calls   int
	clients []*fakeClient
	err     error
	delay   time.Duration
}

func (d *fakeDialer) dial(ctx context.Context, _ mongo.Config) (mongo.Client, error) {
	d.mu.Lock()
	delay := d.delay
	d.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	c := &fakeClient{id: d.calls}
	d.clients = append(d.clients, c)
	return c, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func newManager(d *fakeDialer, opts ...mongo.Option) *mongo.Manager {
	opts = append([]mongo.Option{mongo.WithDialer(d.dial)}, opts...)
	return mongo.New(mongo.Config{ConnectionURL: "mongodb://fake"}, opts...)
}

func TestManager_Connect(t *testing.T) {
	t.Parallel()

	t.Run("second call reuses cached client", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{}
		m := newManager(d)
		assert.Equal(t, mongo.Disconnected, m.State())

		first, err := m.Connect(context.Background())
		require.NoError(t, err)
		second, err := m.Connect(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, d.count())
		assert.Equal(t, mongo.Connected, m.State())
	})

	t.Run("failed attempt is not cached", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{err: errors.New("no reachable servers")}
		m := newManager(d)

		_, err := m.Connect(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
		assert.Contains(t, err.Error(), "no reachable servers")
		assert.Equal(t, mongo.Disconnected, m.State())

		_, err = m.Connect(context.Background())
		require.Error(t, err)
		assert.Equal(t, 2, d.count())
	})

	t.Run("recovers after a failed attempt", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{err: errors.New("down")}
		m := newManager(d)

		_, err := m.Connect(context.Background())
		require.Error(t, err)

		d.mu.Lock()
		d.err = nil
		d.mu.Unlock()

		_, err = m.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, mongo.Connected, m.State())
	})

	t.Run("concurrent cold callers share one dial", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{delay: 50 * time.Millisecond}
		m := newManager(d)

		const callers = 20
		var wg sync.WaitGroup
		clients := make([]mongo.Client, callers)
		for i := range callers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c, err := m.Connect(context.Background())
				assert.NoError(t, err)
				clients[i] = c
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, d.count())
		for _, c := range clients {
			assert.Same(t, clients[0], c)
		}
	})

	t.Run("cancelled caller stops waiting", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{delay: 200 * time.Millisecond}
		m := newManager(d)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := m.Connect(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// The shared attempt keeps going and later callers get its result.
		require.Eventually(t, func() bool {
			return m.State() == mongo.Connected
		}, time.Second, 10*time.Millisecond)
	})
}

func TestManager_Reconnect(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	m := newManager(d)

	_, err := m.Connect(context.Background())
	require.NoError(t, err)
	first := d.clients[0]

	first.pingErr.Store(errors.New("connection reset"))
	err = m.Check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mongo.ErrHealthcheckFailed)
	assert.Equal(t, mongo.Disconnected, m.State())
	assert.Equal(t, int32(0), first.disconnects.Load(), "stale client is kept until reconnect")

	c, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, c)
	assert.Equal(t, int32(1), first.disconnects.Load(), "stale client torn down exactly once")
	assert.Equal(t, 2, d.count())
	assert.Equal(t, mongo.Connected, m.State())
}

func TestManager_Check(t *testing.T) {
	t.Parallel()

	t.Run("not connected", func(t *testing.T) {
		t.Parallel()

		m := newManager(&fakeDialer{})
		assert.ErrorIs(t, m.Check(context.Background()), mongo.ErrNotConnected)
	})

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		m := newManager(&fakeDialer{})
		require.NoError(t, m.Ready(context.Background()))
		assert.NoError(t, m.Check(context.Background()))
		assert.Equal(t, mongo.Connected, m.State())
	})
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	t.Run("no-op when never connected", func(t *testing.T) {
		t.Parallel()

		m := newManager(&fakeDialer{})
		require.NoError(t, m.Close(context.Background()))
		require.NoError(t, m.Close(context.Background()))
		assert.Equal(t, mongo.Disconnected, m.State())
	})

	t.Run("disconnects once", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{}
		m := newManager(d)
		require.NoError(t, m.Ready(context.Background()))

		require.NoError(t, m.Close(context.Background()))
		require.NoError(t, m.Close(context.Background()))

		assert.Equal(t, int32(1), d.clients[0].disconnects.Load())
		assert.Equal(t, mongo.Disconnected, m.State())
	})

	t.Run("next connect dials again", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{}
		m := newManager(d)
		require.NoError(t, m.Ready(context.Background()))
		require.NoError(t, m.Close(context.Background()))
		require.NoError(t, m.Ready(context.Background()))
		assert.Equal(t, 2, d.count())
	})

	t.Run("client dialled after close is not cached", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{delay: 200 * time.Millisecond}
		m := newManager(d)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		require.Error(t, m.Ready(ctx))

		require.NoError(t, m.Close(context.Background()))

		require.Eventually(t, func() bool {
			d.mu.Lock()
			defer d.mu.Unlock()
			return len(d.clients) == 1 && d.clients[0].disconnects.Load() == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, mongo.Disconnected, m.State())
		assert.ErrorIs(t, m.Check(context.Background()), mongo.ErrNotConnected)
	})
}

func TestManager_Database_UnsupportedClient(t *testing.T) {
	t.Parallel()

	m := newManager(&fakeDialer{})
	_, err := m.Database(context.Background(), "")
	assert.ErrorIs(t, err, mongo.ErrUnsupportedClient)
}

type recordingObserver struct {
	hits, attempts, failures, teardowns atomic.Int32
	mu                                  sync.Mutex
	states                              []mongo.State
}

func (o *recordingObserver) CacheHit()       { o.hits.Add(1) }
func (o *recordingObserver) ConnectAttempt() { o.attempts.Add(1) }
func (o *recordingObserver) Teardown()       { o.teardowns.Add(1) }
func (o *recordingObserver) ConnectResult(err error, _ time.Duration) {
	if err != nil {
		o.failures.Add(1)
	}
}

func (o *recordingObserver) StateChanged(s mongo.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, s)
}

func TestManager_Observer(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	m := newManager(&fakeDialer{}, mongo.WithObserver(obs))

	require.NoError(t, m.Ready(context.Background()))
	require.NoError(t, m.Ready(context.Background()))
	require.NoError(t, m.Close(context.Background()))

	assert.Equal(t, int32(1), obs.attempts.Load())
	assert.Equal(t, int32(1), obs.hits.Load())
	assert.Equal(t, int32(0), obs.failures.Load())
	assert.Equal(t, int32(1), obs.teardowns.Load())

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []mongo.State{mongo.Connecting, mongo.Connected, mongo.Disconnecting, mongo.Disconnected}, obs.states)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state     mongo.State
		str       string
		readiness string
	}{
		{mongo.Disconnected, "disconnected", "disconnected"},
		{mongo.Connected, "connected", "connected"},
		{mongo.Connecting, "connecting", "disconnected"},
		{mongo.Disconnecting, "disconnecting", "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.str, tt.state.String())
			assert.Equal(t, tt.readiness, tt.state.Readiness())
		})
	}
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("connects and pings", func(t *testing.T) {
		t.Parallel()

		d := &fakeDialer{}
		m := newManager(d)
		require.NoError(t, mongo.Healthcheck(m)(context.Background()))
		assert.Equal(t, 1, d.count())
	})

	t.Run("reports dial failure", func(t *testing.T) {
		t.Parallel()

		m := newManager(&fakeDialer{err: errors.New("refused")})
		err := mongo.Healthcheck(m)(context.Background())
		assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	})
}
