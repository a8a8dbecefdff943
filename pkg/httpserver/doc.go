// Package httpserver runs an http.Handler with graceful shutdown, timeouts
// and a request body cap.
//
// Run blocks until the context is canceled or the process receives SIGINT or
// SIGTERM, then calls http.Server.Shutdown with the configured deadline.
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
//
// WithMaxBodyBytes limits how much of a request body the binders may read;
// oversized forms fail to parse and are reported as bad requests.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//	r.Post("/orders", handler.Wrap(createOrder))
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
