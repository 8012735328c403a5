// Package lifecycle sequences gateway startup and shutdown.
//
//	Init -> Connecting -> Listening -> Stopped
//	              \-> Failed
//
// The HTTP listener is opened only after the first database connection
// succeeds. A failed first connect is fatal: Run returns ErrStartup and the
// binary exits non-zero with no retry loop. On SIGINT/SIGTERM the server shuts
// down, the cached connection is closed (no-op if none was ever made) and Run
// returns nil.
//
//	var lc *lifecycle.Manager
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithStartHook(func(ctx context.Context, addr string) {
//			lc.MarkListening(ctx, addr)
//		}),
//	)
//	lc = lifecycle.New(conn, srv, lifecycle.WithLogger(log))
//	if err := lc.Run(ctx, router); err != nil {
//		os.Exit(1)
//	}
package lifecycle
