// Package environment propagates the application environment (development,
// staging, production) through context.Context and HTTP requests.
//
// The gateway decides once, at startup, which environment it runs in and
// installs Middleware at the top of the router. Downstream code asks
// IsProduction(ctx) instead of reading configuration, which keeps the
// information-disclosure decision (verbose versus generic error bodies) in one
// place.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(environment.Middleware(environment.Production))
//
//	if environment.IsProduction(r.Context()) {
//		// hide details
//	}
//
// LoggerExtractor plugs into logger.WithContextExtractors and tags records with
// the environment stored in their context.
package environment
