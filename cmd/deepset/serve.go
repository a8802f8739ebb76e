package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/deepset/internal/cli"
	httpAdapter "github.com/aretw0/deepset/pkg/adapters/http"
	"github.com/aretw0/deepset/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP document API",
		Long: `Serves the document store as a JSON API:
  GET    /documents                list documents
  GET    /documents/{id}?path=     read a document or a value
  PUT    /documents/{id}?path=     write a value (or the whole document)
  DELETE /documents/{id}
  POST   /documents/{id}/trace     write and return the walk steps
  GET    /documents/{id}/events    server-sent events of writes
  GET    /metrics                  prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}

			e, err := setup(cmd, metrics.Hooks())
			if err != nil {
				return err
			}
			defer e.Close()

			port := e.cfg.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			opts := []httpAdapter.Option{httpAdapter.WithLogger(e.logger)}
			if e.cfg.Metrics {
				opts = append(opts, httpAdapter.WithMetrics(reg))
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           httpAdapter.NewHandler(e.manager, opts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			serverErrors := make(chan error, 1)
			go func() {
				e.logger.Info("Starting deepset server", "address", srv.Addr, "store", e.cfg.Store)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-sigCtx.Done():
				e.logger.Info("Start shutdown", "signal", sigCtx.Signal())

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					e.logger.Warn("Graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				e.logger.Info("Deepset server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	return cmd
}
