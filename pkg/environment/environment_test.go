package environment_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/environment"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   environment.Environment
		want environment.Environment
	}{
		{"production", environment.Production},
		{"prod", environment.Production},
		{" PROD ", environment.Production},
		{"stage", environment.Staging},
		{"dev", environment.Development},
		{"development", environment.Development},
		{"custom", "custom"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), environment.Staging)
		assert.Equal(t, environment.Staging, environment.FromContext(ctx))
		assert.False(t, environment.IsProduction(ctx))
		assert.False(t, environment.IsDevelopment(ctx))
	})

	t.Run("missing value", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, environment.Environment(""), environment.FromContext(context.Background()))
		assert.False(t, environment.IsProduction(context.Background()))
	})

	t.Run("prod alias is production", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), "prod")
		assert.True(t, environment.IsProduction(ctx))
	})

	t.Run("dev alias is development", func(t *testing.T) {
		t.Parallel()
		ctx := environment.WithContext(context.Background(), "dev")
		assert.True(t, environment.IsDevelopment(ctx))
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got environment.Environment
	h := environment.Middleware(environment.Production)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, environment.Production, got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := environment.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(environment.WithContext(context.Background(), environment.Development))
	require.True(t, ok)
	assert.Equal(t, slog.String("env", "development"), attr)
}
