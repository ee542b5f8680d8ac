package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/client"
	"github.com/clk-66/mrfxp/internal/protocol"
	"github.com/clk-66/mrfxp/internal/view"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch MESSAGE",
	Short: "Request data once over HTTP (SitesData or SettingsData)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := client.NewRequester(nil).RequestOnce(cmd.Context(), fetchURL, protocol.FetchRequest{Message: args[0]})
		if err != nil {
			return err
		}

		views := view.New(cmd.OutOrStdout(), slog.Default())
		switch args[0] {
		case protocol.FetchSitesData:
			views.Sites(data)
		case protocol.FetchSettingsData:
			views.Sections(data)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
