package requestlog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/requestlog"
)

func TestElide(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("A", 150)
	body := map[string]any{
		"name":         "Ann",
		"profileImage": long,
		"avatar":       "short",
		"photo":        42,
		"other":        long,
	}

	got := requestlog.Elide(body, requestlog.DefaultFields, requestlog.DefaultThreshold)

	assert.Equal(t, "[base64 data, length: 150]", got["profileImage"])
	assert.Equal(t, "short", got["avatar"], "short values are kept")
	assert.Equal(t, 42, got["photo"], "non-string values are kept")
	assert.Equal(t, long, got["other"], "unrecognised fields are kept")
	assert.Equal(t, "Ann", got["name"])
	assert.Equal(t, long, body["profileImage"], "input is not modified")

	assert.Nil(t, requestlog.Elide(nil, requestlog.DefaultFields, 10))
}

func TestElide_Threshold(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("x", requestlog.DefaultThreshold)
	got := requestlog.Elide(map[string]any{"image": exact}, requestlog.DefaultFields, requestlog.DefaultThreshold)
	assert.Equal(t, exact, got["image"], "length equal to threshold is not elided")
}

type logLine map[string]any

func captureLogs(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func firstLine(t *testing.T, buf *bytes.Buffer) logLine {
	t.Helper()
	line, _, _ := strings.Cut(buf.String(), "\n")
	var out logLine
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	return out
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("json body is elided in logs and intact downstream", func(t *testing.T) {
		t.Parallel()

		image := strings.Repeat("B", 500)
		payload := `{"name":"Ann","profileImage":"` + image + `"}`

		var logs bytes.Buffer
		var seen string
		h := requestlog.Middleware(captureLogs(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			seen = string(b)
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, payload, seen)
		assert.NotContains(t, logs.String(), image)

		line := firstLine(t, &logs)
		assert.Equal(t, "POST", line["method"])
		assert.Equal(t, "/api/auth/register", line["path"])
		body, ok := line["body"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Ann", body["name"])
		assert.Equal(t, "[base64 data, length: 500]", body["profileImage"])
	})

	t.Run("get logs method and path only", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		h := requestlog.Middleware(captureLogs(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/test", nil))

		line := firstLine(t, &logs)
		assert.Equal(t, "GET", line["method"])
		assert.Equal(t, "/api/test", line["path"])
		assert.NotContains(t, line, "body")
		assert.NotContains(t, line, "body_bytes")
	})

	t.Run("non-json body logs size only", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		var seen string
		h := requestlog.Middleware(captureLogs(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
		}))
		req := httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("plain text"))
		req.Header.Set("Content-Type", "text/plain")
		h.ServeHTTP(httptest.NewRecorder(), req)

		line := firstLine(t, &logs)
		assert.Equal(t, float64(len("plain text")), line["body_bytes"])
		assert.Equal(t, "plain text", seen)
	})

	t.Run("oversized body passes through", func(t *testing.T) {
		t.Parallel()

		payload := `{"image":"` + strings.Repeat("C", 64) + `"}`
		var logs bytes.Buffer
		var seen string
		h := requestlog.Middleware(captureLogs(&logs), requestlog.WithMaxBodySize(16))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				seen = string(b)
			}))
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, payload, seen)
		line := firstLine(t, &logs)
		assert.NotContains(t, line, "body")
		assert.Contains(t, line, "body_bytes")
	})

	t.Run("custom fields and threshold", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		h := requestlog.Middleware(captureLogs(&logs),
			requestlog.WithFields("document"),
			requestlog.WithThreshold(4),
		)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"document":"abcdef","image":"abcdef"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		h.ServeHTTP(httptest.NewRecorder(), req)

		body := firstLine(t, &logs)["body"].(map[string]any)
		assert.Equal(t, "[base64 data, length: 6]", body["document"])
		assert.Equal(t, "abcdef", body["image"])
	})

	t.Run("response is unchanged", func(t *testing.T) {
		t.Parallel()

		h := requestlog.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "1")
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("done"))
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-Test"))
		assert.Equal(t, "done", rec.Body.String())
	})
}
