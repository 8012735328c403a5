package clientip

import (
	"net"
	"net/http"
	"strings"
)

// DefaultHeaders are consulted in order before RemoteAddr.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// Resolver extracts the client address from a request. Only the configured
// headers are trusted; list none when the gateway is reachable directly.
type Resolver struct {
	headers []string
}

// NewResolver creates a Resolver trusting headers in order. With no headers
// only RemoteAddr is used.
func NewResolver(headers ...string) *Resolver {
	hs := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			hs = append(hs, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: hs}
}

var defaultResolver = NewResolver(DefaultHeaders...)

// GetIP resolves the client address with DefaultHeaders.
func GetIP(r *http.Request) string {
	return defaultResolver.IP(r)
}

// IP returns the first valid address found in the trusted headers, then
// RemoteAddr. Headers may carry a comma separated chain; the left-most valid
// entry wins. Returns "" when nothing parses.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		for ip := range strings.SplitSeq(r.Header.Get(h), ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(SetIPToContext(r.Context(), res.IP(r))))
	})
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
