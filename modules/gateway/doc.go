// Package gateway assembles the HTTP route table of the auth gateway.
//
// Router wires the shared middleware pipeline, the diagnostic endpoints
// (/, /api/test, /api/health), the auth module under /api/auth and the
// fallback for everything outside /api. Each route is guarded by a readiness
// gate over the shared database Connection, so a request never reaches a
// handler while the database is unreachable.
//
// Usage:
//
//	r := gateway.Router(gateway.RouterOptions{
//		Config:     cfg,
//		Connection: manager,
//		Auth:       accountHandler,
//		Fallback:   fb,
//		Sink:       sink,
//		Metrics:    collector,
//		Logger:     log,
//	})
package gateway
