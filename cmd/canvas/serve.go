package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/canvas/internal/scenario"
	httpAdapter "github.com/aretw0/canvas/pkg/adapters/http"
	"github.com/aretw0/canvas/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve replayed scenarios over a read-only HTTP API",
	Long: `Replays every scenario in --dir into an in-memory session store and exposes
the resulting diagrams as JSON, alongside Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		st, err := newStack(cmd, metrics.Hooks())
		if err != nil {
			return err
		}

		scenarios, err := scenario.LoadDir(dir)
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			if _, err := st.runner.Run(cmd.Context(), s); err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
		}

		router := chi.NewRouter()
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		router.Mount("/", httpAdapter.NewHandler(st.manager,
			httpAdapter.WithObserver(metrics),
			httpAdapter.WithLogger(st.logger),
		))

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting Canvas Server on %s\n", srv.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d diagrams from: %s\n", len(scenarios), dir)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			st.logger.Info("shutdown requested", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				st.logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Canvas Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("dir", "d", "examples/scenarios", "Directory of scenario files to replay")
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
