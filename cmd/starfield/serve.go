package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/api"
	"github.com/frankfika/thanksgiving/internal/app"
	"github.com/frankfika/thanksgiving/internal/metrics"
	"github.com/frankfika/thanksgiving/internal/ui"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shared star API",
		Long: `Serve the star list and the analyzer over HTTP so that windows
configured with the "remote" store or provider share one sky and one
API key.

  starfield serve
  starfield serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if cfg.Store.Backend == "remote" {
				return fmt.Errorf("serve needs a local store backend, not %q", cfg.Store.Backend)
			}

			b, err := app.OpenBackend(cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			analyzer, err := app.NewAnalyzer(cfg, logger)
			if err != nil {
				return err
			}
			m := metrics.New("starfield", analysis.Categories()...)
			srv := api.New(b.Stars, analyzer, m, logger.Named("api"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.Banner(cmd.OutOrStdout(), "serving the shared sky")
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", ui.Subtle.Sprint("listening on"), ui.Info.Sprint(addr))
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s / %s\n\n", ui.Subtle.Sprint("store"), cfg.Store.Backend, ui.Subtle.Sprint(cfg.Analysis.Provider))

			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				err = nil
			}
			if err != nil {
				return err
			}
			logger.Info("api stopped", zap.String("addr", addr))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
