package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	addr     string // push channel address
	fetchURL string // one-shot fallback endpoint
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "mrfxp",
	Short: "mrfxp dashboard",
	Long: `mrfxp is the terminal dashboard for the mrfxp site service. Each page command
opens the push channel, asks for its data and renders the reply:
- sites       configured FTP sites
- transfers   source and destination pickers
- settings    section list
- edit-site   per-section path editor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "ws://localhost:8888/mrfxp/ws", "Service push channel address")
	rootCmd.PersistentFlags().StringVar(&fetchURL, "fetch-url", "http://localhost:8888/mrfxp/fetch", "Service fallback endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log protocol traffic")
}
