package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrymomot/authgate/pkg/metrics"
	"github.com/dmitrymomot/authgate/pkg/mongo"
)

type stubClient struct{}

func (stubClient) Ping(context.Context, *readpref.ReadPref) error { return nil }
func (stubClient) Disconnect(context.Context) error              { return nil }

func TestCollector_ObservesManager(t *testing.T) {
	t.Parallel()

	c := metrics.New()
	m := mongo.New(mongo.Config{ConnectionURL: "mongodb://fake"},
		mongo.WithObserver(c),
		mongo.WithDialer(func(context.Context, mongo.Config) (mongo.Client, error) { return stubClient{}, nil }),
	)

	require.NoError(t, m.Ready(context.Background()))
	require.NoError(t, m.Ready(context.Background()))

	out, err := testutil.GatherAndCount(c.Registry(),
		"authgate_mongo_connect_attempts_total",
		"authgate_mongo_cache_hits_total",
		"authgate_mongo_state",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	body := scrape(t, c)
	assert.Contains(t, body, `authgate_mongo_connect_attempts_total{result="success"} 1`)
	assert.Contains(t, body, "authgate_mongo_cache_hits_total 1")
	assert.Contains(t, body, "authgate_mongo_state 1")

	require.NoError(t, m.Close(context.Background()))
	body = scrape(t, c)
	assert.Contains(t, body, "authgate_mongo_teardowns_total 1")
	assert.Contains(t, body, "authgate_mongo_state 0")
}

func TestCollector_ConnectFailure(t *testing.T) {
	t.Parallel()

	c := metrics.New()
	c.ConnectResult(errors.New("refused"), 20*time.Millisecond)

	assert.Contains(t, scrape(t, c), `authgate_mongo_connect_attempts_total{result="failure"} 1`)
}

func TestCollector_Middleware(t *testing.T) {
	t.Parallel()

	c := metrics.New()
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, p := range []string{"/", "/", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	for _, m := range []string{"FOOBAR", "BAZ"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(m, "/", nil))
	}
	c.HandlerError(context.Background(), errors.New("boom"))

	body := scrape(t, c)
	assert.Contains(t, body, `authgate_http_requests_total{method="GET",status="200"} 2`)
	assert.Contains(t, body, `authgate_http_requests_total{method="GET",status="404"} 1`)
	assert.Contains(t, body, `authgate_http_requests_total{method="OTHER",status="200"} 2`)
	assert.NotContains(t, body, "FOOBAR")
	assert.Contains(t, body, "authgate_http_handler_errors_total 1")
}

func scrape(t *testing.T, c *metrics.Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	b, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(b)
}
