// Package errorsink is the last stop for errors that escape route handlers.
//
// A Sink logs the error, writes a Record (message, stack, path, method and
// redacted headers) to a side channel such as a fixed file, and answers 500.
// Development responses include the error and stack; production responses
// never do.
//
//	sink := errorsink.New(errorsink.NewFileWriter("/tmp/error.log"),
//		errorsink.WithLogger(log),
//	)
//	r.Use(sink.Recoverer)
//	r.Get("/api/profile", sink.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//		return errors.New("boom")
//	}))
//
// A failing record writer is logged and ignored. The client still gets its 500.
package errorsink
