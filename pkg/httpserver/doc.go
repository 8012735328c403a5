// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run opens the listener first, so a bad address or a port already in use is
// reported as ErrStart before any start hook fires. It then serves until the
// context is cancelled or SIGINT/SIGTERM arrives and shuts down with a bounded
// deadline. Start and stop hooks receive the bound address, which is how the
// lifecycle package learns that the gateway is actually listening.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStartHook(func(ctx context.Context, addr string) {
//			log.InfoContext(ctx, "ready", "addr", addr)
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// ProbeHandler returns plain-text liveness and readiness probes for
// orchestrators.
package httpserver
