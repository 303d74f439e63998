package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/searchdemo/internal/transport/chi"
)

func (r *runner) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query facade over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := app.Logger

			if err := app.WaitForReady(ctx); err != nil {
				// /healthz reports the outage; keep serving
				logger.Warn("search service not ready", zap.Error(err))
			}

			server := chiTransport.NewServer(app.Search, app.Answer, app.Health, logger)

			if addr == "" {
				addr = fmt.Sprintf(":%d", app.Config.HTTP.Port)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.Router(app.Config.HTTP.APIKeys),
				ReadHeaderTimeout: time.Duration(app.Config.HTTP.ReadTimeoutSec) * time.Second,
				ReadTimeout:       time.Duration(app.Config.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout:      time.Duration(app.Config.HTTP.WriteTimeoutSec) * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			return serve(ctx, srv, time.Duration(app.Config.HTTP.ShutdownSec)*time.Second, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :<http.port>)")
	return cmd
}

// serve runs srv until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
