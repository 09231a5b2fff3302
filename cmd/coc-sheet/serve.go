package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/handlers/api/v1alpha1"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/metrics"
	redisclient "github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/redis"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long: `Serve exposes drafts, characters and the catalog as a JSON API under
/v1alpha1, with /healthz and Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				opts.cfg.HTTP.Addr = addr
			}
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(parent context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := newRouter(a, opts, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: opts.cfg.HTTP.RequestTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", srv.Addr, "storage", opts.cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- errors.WrapWithCode(err, errors.CodeUnavailable, "failed to serve")
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop", "error", err)
			return srv.Close()
		}
		slog.Info("Server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

// newRouter mounts the API, the health check and the metrics endpoint
func newRouter(a *app, opts *rootOptions, reg *prometheus.Registry) (http.Handler, error) {
	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		CharacterService: a.service,
		Logger:           opts.logger,
		Metrics:          metrics.New(reg),
		RequestTimeout:   opts.cfg.HTTP.RequestTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create API handler")
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := redisclient.Ping(req.Context(), a.redis); err != nil {
			slog.Warn("Health check failed", "error", err)
			http.Error(w, "draft store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.Register(r)

	return r, nil
}
