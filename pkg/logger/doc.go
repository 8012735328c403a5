// Package logger builds *slog.Logger instances for the gateway and provides
// attribute helpers so keys stay consistent across packages.
//
// New returns a logger configured through Option functions:
//
//   - WithEnvironment picks the level and format for an environment and tags
//     every record with the service name and environment
//   - WithFormat, WithLevel and WithOutput override individual settings
//   - WithAttr attaches static attributes
//   - WithContextExtractors injects request-scoped attributes at log time
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "authgate"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "mongo connected",
//	    logger.Component("mongo"),
//	    logger.Duration(time.Since(start)),
//	)
//
// Error produces an attribute only when the error is non-nil, so
//
//	log.Info("operation finished", logger.Error(err))
//
// needs no nil check.
package logger
