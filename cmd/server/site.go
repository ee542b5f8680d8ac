package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/store"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage configured FTP sites",
}

var siteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a site",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in store.AddSiteInput
		in.Name, _ = cmd.Flags().GetString("name")
		in.Hostname, _ = cmd.Flags().GetString("host")
		in.Port, _ = cmd.Flags().GetInt("port")
		in.TLS, _ = cmd.Flags().GetBool("tls")
		in.Username, _ = cmd.Flags().GetString("user")
		in.Password, _ = cmd.Flags().GetString("password")

		_, database, st, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		site, err := st.AddSite(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added site %d (%s)\n", site.ID, site.Name)
		return nil
	},
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites, with passwords masked unless --reveal is set",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, database, st, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		list := st.ListMaskedSites
		if reveal, _ := cmd.Flags().GetBool("reveal"); reveal {
			list = st.ListSites
		}
		sites, err := list(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tHOST\tTLS\tUSER\tPASSWORD")
		for _, s := range sites {
			fmt.Fprintf(w, "%d\t%s\t%s:%d\t%t\t%s\t%s\n", s.ID, s.Name, s.Hostname, s.Port, s.TLS, s.Username, s.Password)
		}
		return w.Flush()
	},
}

var sitePathCmd = &cobra.Command{
	Use:   "path SITE_ID [SECTION_ID PATH]",
	Short: "Show or set the remote directory a site uses per section",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected SITE_ID or SITE_ID SECTION_ID PATH")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid site id %q", args[0])
		}

		_, database, st, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		if len(args) == 3 {
			sectionID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid section id %q", args[1])
			}
			if err := st.SetSectionPath(cmd.Context(), siteID, sectionID, args[2]); err != nil {
				return err
			}
		}

		paths, err := st.SectionPaths(cmd.Context(), siteID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tPATH")
		for _, p := range paths {
			fmt.Fprintf(w, "%s\t%s\n", p.SectionName, p.Path)
		}
		return w.Flush()
	},
}

func init() {
	siteAddCmd.Flags().String("name", "", "Display name (required)")
	siteAddCmd.Flags().String("host", "", "FTP hostname (required)")
	siteAddCmd.Flags().Int("port", 21, "FTP port")
	siteAddCmd.Flags().Bool("tls", false, "Use explicit TLS")
	siteAddCmd.Flags().String("user", "", "Login user")
	siteAddCmd.Flags().String("password", "", "Login password, stored sealed")
	siteAddCmd.MarkFlagRequired("name")
	siteAddCmd.MarkFlagRequired("host")

	siteListCmd.Flags().Bool("reveal", false, "Print stored passwords in clear")

	siteCmd.AddCommand(siteAddCmd, siteListCmd, sitePathCmd)
	rootCmd.AddCommand(siteCmd)
}
