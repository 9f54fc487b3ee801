package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanherrera2015-beep/examexperts/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the functions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			return runServe(cmd.Context(), port)
		},
	}
	cmd.Flags().StringP("port", "p", "", "Listen port (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, port string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := server.Bootstrap(ctx)
	if err != nil {
		return err
	}
	logger := rt.Logger
	defer logger.Sync() //nolint:errcheck

	if port == "" {
		port = rt.Config.Port
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           rt.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("Functions server started",
		zap.String("port", port),
		zap.String("route_prefix", rt.Config.RoutePrefix),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down functions server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server exited cleanly")
	return nil
}
