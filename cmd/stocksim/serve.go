package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the simulation HTTP API" }
func (*serveCmd) Usage() string {
	return `serve [-port N]

  Serves GET /health, GET /api/assets, GET /api/history and
  POST /api/simulations until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "port to listen on (default STOCKSIM_PORT)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	catalog, err := a.catalog(ctx)
	if err != nil {
		return exitStatus(err)
	}
	port := a.cfg.Port
	if c.port > 0 {
		port = c.port
	}
	srv := a.newServer(port, a.newEngine(nil), catalog)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if err := waitForShutdown(ctx, errCh); err != nil {
		return exitStatus(err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return exitStatus(err)
	}
	a.log.Info().Msg("HTTP server stopped")
	return subcommands.ExitSuccess
}

// waitForShutdown waits for SIGTERM or SIGINT, or for the server to fail.
func waitForShutdown(ctx context.Context, errCh <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
