package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/homemade/fieldsync/sync"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sync trigger endpoint",
		Long: `Serve starts an HTTP server exposing:

  POST /sync   run one sync, respond with the result as JSON
  GET  /       liveness check`,
		Example: `  fieldsync serve
  fieldsync serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncer, err := a.newSyncer(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           sync.NewHTTPHandler(syncer),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errs := make(chan error, 1)
			go func() {
				a.logger.Info().Str("addr", addr).Msg("Starting server")
				errs <- server.ListenAndServe()
			}()

			select {
			case err := <-errs:
				return err
			case <-cmd.Context().Done():
			}

			a.logger.Info().Msg("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
