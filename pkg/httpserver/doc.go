// Package httpserver wraps net/http's server with graceful shutdown, env
// configuration, and slog-aware lifecycle hooks. The platform uses it to
// serve the mounted access module.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStartHook(func(l *slog.Logger) {
//	        l.Info("listening", slog.String("addr", cfg.Addr))
//	    }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run blocks until the context is cancelled, SIGINT/SIGTERM arrives, or the
// listener fails; in-flight requests get ShutdownTimeout to finish.
package httpserver
