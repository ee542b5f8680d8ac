package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/client"
)

var errEmptySectionName = errors.New("section name is required")

var addSectionCmd = &cobra.Command{
	Use:   "add-section NAME",
	Short: "Create a section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return errEmptySectionName
		}

		// The service answers with an unreferenced SetSections that no page
		// is bound to, so there is nothing to wait for.
		conn, err := dial(cmd.Context(), cmd, client.NewRouter(client.NewTable(), slog.Default()))
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := client.NewSender(conn).AddSection(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "section %q sent\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addSectionCmd)
}
