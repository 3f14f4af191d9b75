package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/api"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.seedDemo(); err != nil {
				e.log.Warn().Err(err).Msg("demo data not seeded")
			}
			if addr == "" {
				addr = e.cfg.HTTP.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, e, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from http.addr)")
	return cmd
}

// serve runs the API until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, e *env, addr string) error {
	app := api.New(api.Deps{Store: e.store, Log: e.log.Zerolog()})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return WrapExitError(ExitFailure, "listen", err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listener(ln)
	}()
	e.log.Info().Str("addr", ln.Addr().String()).Msg("serving API")

	select {
	case err := <-errc:
		if err != nil {
			return WrapExitError(ExitFailure, "serve", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown", err)
	}
	return nil
}
