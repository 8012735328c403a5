package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/requestid"
)

func serve(t *testing.T, header string) (ctxID, respID string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid when missing", func(t *testing.T) {
		t.Parallel()
		ctxID, respID := serve(t, "")
		assert.Equal(t, ctxID, respID)
		_, err := uuid.Parse(respID)
		assert.NoError(t, err)
	})

	t.Run("keeps valid ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc123", "test-request_id", "550e8400-e29b-41d4-a716-446655440000"} {
			ctxID, respID := serve(t, id)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, respID)
		}
	})

	t.Run("replaces invalid ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"test@id", "with space", "a/b", "<script>", strings.Repeat("a", 129)} {
			ctxID, respID := serve(t, id)
			assert.NotEqual(t, id, respID)
			assert.Equal(t, ctxID, respID)
		}
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "test-id")
	assert.Equal(t, "test-id", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))

	attr, ok := requestid.LoggerExtractor()(ctx)
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)

	_, ok = requestid.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
