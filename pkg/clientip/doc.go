// Package clientip resolves the originating client address of HTTP requests.
//
// A Resolver trusts a fixed, ordered list of proxy headers and falls back to
// RemoteAddr:
//
//	res := clientip.NewResolver("X-Forwarded-For")
//	r.Use(res.Middleware)
//
//	ip := clientip.GetIPFromContext(ctx)
//
// Header values are validated with net.ParseIP and normalised, so spoofed
// garbage never reaches rate limit keys or logs.
package clientip
