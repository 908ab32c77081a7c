package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goldi-lab/gift/internal/cli"
	httpAdapter "github.com/goldi-lab/gift/pkg/adapters/http"
	"github.com/goldi-lab/gift/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the sessions of the configured store as a JSON API with an SSE change
stream, plus Prometheus metrics on a separate port.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		return withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
			port := app.Config.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}
			metricsPort := app.Config.Server.MetricsPort
			if cmd.Flags().Changed("metrics-port") {
				metricsPort, _ = cmd.Flags().GetInt("metrics-port")
			}

			servers := []*http.Server{{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           httpAdapter.NewHandler(app.Manager, httpAdapter.WithLogger(app.Logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}}
			if metricsPort > 0 {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				servers = append(servers, &http.Server{
					Addr:              fmt.Sprintf(":%d", metricsPort),
					Handler:           mux,
					ReadHeaderTimeout: 10 * time.Second,
				})
			}

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			g, ctx := errgroup.WithContext(sigCtx)
			for _, srv := range servers {
				g.Go(func() error {
					app.Logger.Info("listening", "addr", srv.Addr)
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
			}
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				var errs []error
				for _, srv := range servers {
					if err := srv.Shutdown(shutdownCtx); err != nil {
						errs = append(errs, fmt.Errorf("graceful shutdown of %s: %w", srv.Addr, err))
						_ = srv.Close()
					}
				}
				return errors.Join(errs...)
			})

			err := g.Wait()
			if sig := sigCtx.Signal(); sig != nil {
				app.Logger.Info("server stopped", "signal", sig.String())
			}
			return err
		}, metrics.Hooks())(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().Int("metrics-port", 2112, "Port for /metrics, 0 disables it (overrides server.metrics_port)")
}
