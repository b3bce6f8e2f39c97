package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhillsview/frontdesk/internal/api"
	"github.com/dhillsview/frontdesk/internal/debuglog"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var (
		addr    string
		release bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart and staff actions over HTTP",
		Long: `Serve the tape chart, bookings and settings as a JSON API under /api/v1.

The server shares one chart session, so a move made through the API is
visible to the next chart request at once.`,
		Example: `  frontdesk serve
  frontdesk serve --addr=:9090 --release`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}
			if release {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr from config)")
	cmd.Flags().BoolVar(&release, "release", false, "Run gin in release mode")
	return cmd
}

// serve runs the API until ctx is done, then shuts down gracefully.
func (a *App) serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(api.NewHandler(a.session, a.sched)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      a.config.WriteTimeout() + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Fprintf(a.out, "Listening on %s\n", addr)
		debuglog.Event("SERVE_START", map[string]any{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		debuglog.Event("SERVE_STOP", nil)
		return nil
	})
	return g.Wait()
}
