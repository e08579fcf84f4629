package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-backend/internal/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"service", "server"},
		Short:   "Serve the chat endpoint over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), *configPath, config.ModeService)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.Service.Addr = addr
			}
			return runService(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides service.addr")
	return cmd
}

func newServer(a *app) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Service.Path, a.handler)

	return &http.Server{
		Addr:         a.cfg.Service.Addr,
		Handler:      mux,
		ReadTimeout:  a.cfg.Service.Timeout,
		WriteTimeout: a.cfg.Service.Timeout,
		IdleTimeout:  a.cfg.Service.Timeout,
	}
}

// runService serves until ctx is cancelled, then drains in-flight requests.
func runService(ctx context.Context, a *app) error {
	srv := newServer(a)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "address", srv.Addr, "path", a.cfg.Service.Path, "timeout", a.cfg.Service.Timeout.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.logger.Error("server failed", "err", err)
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	return nil
}
