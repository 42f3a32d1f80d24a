// Package httpserver wraps net/http.Server with graceful shutdown, signal
// handling and structured logging hooks.
//
// The server binds a handler, serves until the context is cancelled or the
// process receives SIGINT/SIGTERM, and then drains in-flight requests within
// a configurable shutdown timeout.
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler doubles as a liveness probe (no dependency functions)
// and a readiness probe (with dependency ping functions).
package httpserver
