package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpAdapter "github.com/courselets/trail/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the engine in server mode, exposing the session API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, cleanup, logger, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		owner, _ := cmd.Flags().GetString("owner")
		deploy, _ := cmd.Flags().GetBool("deploy")
		// The memory backend starts empty, so it always needs a deploy.
		if deploy || cfg.Store.Backend == "memory" {
			if _, err := engine.Deploy(cmd.Context(), owner, builtinSources()...); err != nil {
				return fmt.Errorf("deploy graphs: %w", err)
			}
		}

		r := chi.NewRouter()
		r.Mount("/", httpAdapter.NewHandler(engine, logger))
		if cfg.Metrics.Enabled {
			r.Handle("/metrics", promhttp.Handler())
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: r,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("close server: %w", err)
				}
			}
			logger.Info("server stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("owner", "system", "Owner recorded on deployed graphs")
	serveCmd.Flags().Bool("deploy", false, "Deploy the builtin graphs before serving")
}
