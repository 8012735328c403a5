// Package readiness gates HTTP handlers behind a dependency check.
//
// The gateway wraps every route with Middleware(conn.Ready), so a request
// only reaches its handler once the shared database connection is established. Routes that need a specific failure body configure their own
// gate:
//
//	r.With(readiness.Middleware(conn.Ready,
//		readiness.WithMessage("Health check failed"),
//		readiness.WithField("mongodb", "disconnected"),
//	)).Get("/api/health", health)
//
// Failures are answered directly and never reach the error sink.
package readiness
