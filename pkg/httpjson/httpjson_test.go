package httpjson_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, httpjson.Write(rec, http.StatusCreated, map[string]any{"message": "ok", "n": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok","n":1}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpjson.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
}

func TestAsClientError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("register: %w", httpjson.NewHTTPError(http.StatusConflict, "User already exists"))
	he, ok := httpjson.AsClientError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, "User already exists", he.Error())

	_, ok = httpjson.AsClientError(httpjson.NewHTTPError(http.StatusBadGateway, "upstream"))
	assert.False(t, ok, "5xx is not a client error")

	_, ok = httpjson.AsClientError(errors.New("boom"))
	assert.False(t, ok)
}
