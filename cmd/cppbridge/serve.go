package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/cppbridge/internal/server"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(global *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Serve the calculator as a JSON API.

  POST /v1/calculate   evaluate one scenario
  POST /v1/breakeven   per-age stream values and breakeven ages
  GET  /health         liveness and active configuration
  GET  /metrics        Prometheus metrics

The listen address comes from --addr, CPPBRIDGE_SERVER_ADDR, server.addr in
the settings file, or PORT, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if cmd.Flags().Changed("addr") {
				a.settings.Server.Addr = addr
			}

			srv, err := server.New(a.engine, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(a.settings.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutdown signal received, draining connections")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.logger.Info("server stopped", zap.String("addr", a.settings.Server.Addr))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, e.g. :8080")
	return cmd
}
