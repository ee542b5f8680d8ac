package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/hub"
	"github.com/clk-66/mrfxp/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, st, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		wsHub := hub.NewHub(cfg.Domain, st, hub.Options{Rate: cfg.WSRate, Burst: cfg.WSBurst})
		go wsHub.Run(ctx)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           newRouter(cfg.BasePath, wsHub, store.NewHandler(st)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			slog.Info("server listening", "port", cfg.Port, "base_path", cfg.BasePath)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				slog.Error("server stopped", "err", err)
				return err
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
