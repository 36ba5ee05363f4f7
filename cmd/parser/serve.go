package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Fchery87/Rapid-CRM/internal/adapters/driving/http"
	"github.com/Fchery87/Rapid-CRM/internal/worker"
)

func newAPICmd(opts *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:     "api",
		GroupID: "serve",
		Short:   "Serve the HTTP API",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				opts.cfg.Port = port
			}
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger, false)
			if err != nil {
				return err
			}
			defer a.Close()
			return runAPI(cmd.Context(), a)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides PORT)")
	return cmd
}

func newWorkerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "worker",
		GroupID: "serve",
		Short:   "Process queued parse jobs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger, true)
			if err != nil {
				return err
			}
			defer a.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return runWorker(ctx, a) })
			if a.metrics != nil && a.cfg.MetricsPort > 0 {
				g.Go(func() error { return runMetrics(ctx, a) })
			}
			return g.Wait()
		},
	}
}

func newAllCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "all",
		GroupID: "serve",
		Short:   "Serve the HTTP API and process parse jobs in one process",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger, true)
			if err != nil {
				return err
			}
			defer a.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return runWorker(ctx, a) })
			g.Go(func() error { return runAPI(ctx, a) })
			return g.Wait()
		},
	}
}

func runAPI(ctx context.Context, a *app) error {
	server := http.NewServer(http.Config{
		Host:           a.cfg.Host,
		Port:           a.cfg.Port,
		Version:        a.cfg.Version,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		CORSOrigins:    a.cfg.CORSOrigins,
		Metrics:        a.metrics,
		Logger:         a.logger,
	}, a.parser, a.reports, a.credentials, a.checks)

	return server.Start(ctx)
}

// runMetrics serves health and metrics on METRICS_PORT for a worker-only process.
func runMetrics(ctx context.Context, a *app) error {
	server := http.NewMetricsServer(http.Config{
		Host:    a.cfg.Host,
		Port:    a.cfg.MetricsPort,
		Version: a.cfg.Version,
		Metrics: a.metrics,
		Logger:  a.logger,
	}, a.checks)

	return server.Start(ctx)
}

// runWorker processes jobs until ctx is cancelled.
func runWorker(ctx context.Context, a *app) error {
	w := worker.NewWorker(worker.WorkerConfig{
		TaskQueue:      a.queue,
		Parser:         a.parser,
		Metrics:        a.jobMetrics,
		Logger:         a.logger,
		Concurrency:    a.cfg.WorkerConcurrency,
		DequeueTimeout: a.cfg.WorkerDequeueTimeout,
		TaskTimeout:    a.cfg.WorkerTaskTimeout,
	})

	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	a.logger.Info("stopping worker")
	w.Stop()
	return nil
}
