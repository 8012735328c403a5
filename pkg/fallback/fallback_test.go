package fallback_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/fallback"
)

func buildDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	return dir
}

func get(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServeStatic(t *testing.T) {
	t.Parallel()

	t.Run("serves existing file", func(t *testing.T) {
		t.Parallel()
		rec := get(fallback.ServeStatic(buildDir(t)), http.MethodGet, "/assets/app.js")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "console.log(1)", rec.Body.String())
	})

	t.Run("unknown path falls back to index", func(t *testing.T) {
		t.Parallel()
		h := fallback.ServeStatic(buildDir(t))
		for _, p := range []string{"/", "/dashboard/settings", "/index.html", "/assets"} {
			rec := get(h, http.MethodGet, p)
			assert.Equal(t, http.StatusOK, rec.Code, p)
			assert.Equal(t, "<html>app</html>", rec.Body.String(), p)
		}
	})

	t.Run("missing build answers json", func(t *testing.T) {
		t.Parallel()
		rec := get(fallback.ServeStatic(filepath.Join(t.TempDir(), "nope")), http.MethodGet, "/anything")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Frontend build not found. API is running.","api":"/api"}`, rec.Body.String())
	})

	t.Run("non-get methods are not served", func(t *testing.T) {
		t.Parallel()
		rec := get(fallback.ServeStatic(buildDir(t)), http.MethodPost, "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
	})

	t.Run("traversal stays inside dir", func(t *testing.T) {
		t.Parallel()
		rec := get(fallback.ServeStatic(buildDir(t)), http.MethodGet, "/../../etc/passwd")
		assert.NotContains(t, rec.Body.String(), "root:")
	})
}

func TestDescribeEndpoints(t *testing.T) {
	t.Parallel()

	h := fallback.DescribeEndpoints("1.2.3", []string{"/api/health", "/api/test"})
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := get(h, m, "/whatever")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Auth API is running!","version":"1.2.3","endpoints":["/api/health","/api/test"]}`, rec.Body.String())
	}

	rec := get(fallback.DescribeEndpoints("1", nil), http.MethodGet, "/")
	assert.JSONEq(t, `{"message":"Auth API is running!","version":"1","endpoints":[]}`, rec.Body.String())
}

func TestNew(t *testing.T) {
	t.Parallel()

	dir := buildDir(t)

	h, s := fallback.New(fallback.Config{Production: true, StaticDir: dir, Version: "1.0.0"})
	assert.Equal(t, fallback.StrategyDescribe, s)
	assert.Contains(t, get(h, http.MethodGet, "/").Body.String(), `"version":"1.0.0"`)

	h, s = fallback.New(fallback.Config{StaticDir: dir})
	assert.Equal(t, fallback.StrategyStatic, s)
	assert.Equal(t, "<html>app</html>", get(h, http.MethodGet, "/login").Body.String())
}
