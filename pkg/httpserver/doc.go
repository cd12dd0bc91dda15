// Package httpserver runs a net/http server with context-driven graceful
// shutdown, configurable timeouts, slog lifecycle logging and health-check
// handlers.
//
// Run blocks until its context is cancelled (wire it to signal.NotifyContext
// in main) or Shutdown is called, then drains in-flight requests within the
// shutdown timeout. Request contexts are detached from the Run context so
// handlers finish their work, session saves included, during the drain.
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log, redis.Healthcheck(client)))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Listener errors are joined with ErrStart and drain failures with
// ErrShutdown; match them with errors.Is.
package httpserver
