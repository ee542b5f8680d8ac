package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/config"
	"github.com/clk-66/mrfxp/internal/db"
	"github.com/clk-66/mrfxp/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "mrfxp-server",
	Short:         "mrfxp site service",
	Long:          `Serves the dashboard push channel and the HTTP fallback path, and manages the site database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the configuration and opens the site database.
func openStore() (*config.Config, *sql.DB, *store.Store, error) {
	cfg := config.Load()
	if cfg.Secret == "" {
		return nil, nil, nil, errors.New("MRFXP_SECRET must be set")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, database, store.New(database, cfg.Secret), nil
}
