package fallback

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

const (
	// MissingBuildMessage is returned when the static directory does not exist.
	MissingBuildMessage = "Frontend build not found. API is running."
	// DescribeMessage heads the endpoint description.
	DescribeMessage = "Auth API is running!"
)

// Strategy names the selected fallback.
type Strategy string

const (
	StrategyStatic   Strategy = "static"
	StrategyDescribe Strategy = "describe"
)

// Config selects and parameterises the fallback.
type Config struct {
	// Production selects DescribeEndpoints instead of serving files.
	Production bool
	StaticDir  string
	Version    string
	Endpoints  []string
}

// New picks the fallback once, at startup.
func New(cfg Config) (http.Handler, Strategy) {
	if cfg.Production {
		return DescribeEndpoints(cfg.Version, cfg.Endpoints), StrategyDescribe
	}
	return ServeStatic(cfg.StaticDir), StrategyStatic
}

type missingBuild struct {
	Message string `json:"message"`
	API     string `json:"api"`
}

// ServeStatic serves files from dir. Paths that do not resolve to a file get
// dir/index.html so client-side routing works. When dir does not exist every
// request is answered with a JSON notice instead. Only GET and HEAD are served.
func ServeStatic(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httpjson.NotFound(w, r)
			return
		}

		// Checked per request so a build dropped in after startup is picked up.
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			_ = httpjson.Write(w, http.StatusOK, missingBuild{Message: MissingBuildMessage, API: "/api"})
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if name != "/" && name != "/index.html" && isFile(filepath.Join(dir, filepath.FromSlash(name))) {
			files.ServeHTTP(w, r)
			return
		}
		serveIndex(w, r, filepath.Join(dir, "index.html"))
	})
}

func serveIndex(w http.ResponseWriter, r *http.Request, index string) {
	f, err := os.Open(index)
	if err != nil {
		httpjson.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		httpjson.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

type description struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// DescribeEndpoints answers every request with a static API description.
func DescribeEndpoints(version string, endpoints []string) http.Handler {
	if endpoints == nil {
		endpoints = []string{}
	}
	body := description{
		Message:   DescribeMessage,
		Version:   version,
		Endpoints: endpoints,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpjson.Write(w, http.StatusOK, body)
	})
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
