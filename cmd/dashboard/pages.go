package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clk-66/mrfxp/internal/client"
	"github.com/clk-66/mrfxp/internal/protocol"
	"github.com/clk-66/mrfxp/internal/view"
)

var errClosedBeforeReply = errors.New("connection closed before the service replied")

var watch bool

func pageCmd(use, short string, action client.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return openPage(cmd, action)
		},
	}
}

// openPage connects, triggers action and renders the routed reply. With
// --watch it keeps rendering pushed updates until interrupted.
func openPage(cmd *cobra.Command, action client.Action) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rendered := make(chan protocol.Key, 1)
	table := client.NewTable()
	views := view.New(cmd.OutOrStdout(), slog.Default())
	for key, render := range views.Routes() {
		table.Register(key.Event, key.Reference, func(data json.RawMessage) {
			render(data)
			select {
			case rendered <- key:
			default:
			}
		})
	}

	conn, err := dial(ctx, cmd, client.NewRouter(table, slog.Default()))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := client.NewSender(conn).Trigger(action, nil); err != nil {
		return err
	}

	for {
		select {
		case key := <-rendered:
			slog.Debug("page rendered", "event", key.Event, "reference", key.Reference)
			if !watch {
				return nil
			}
		case <-conn.Done():
			if err := conn.Err(); err != nil {
				return err
			}
			return errClosedBeforeReply
		case <-ctx.Done():
			return nil
		}
	}
}

func dial(ctx context.Context, cmd *cobra.Command, sink client.Sink) (*client.Conn, error) {
	conn := client.NewConn(sink, client.Options{
		Notifier: client.WriterNotifier{W: cmd.ErrOrStderr()},
		Logger:   slog.Default(),
	})
	if err := conn.Connect(ctx, addr); err != nil {
		return nil, err
	}
	return conn, nil
}

func init() {
	pages := []*cobra.Command{
		pageCmd("sites", "Show configured FTP sites", client.ActionOpenSites),
		pageCmd("transfers", "Show transfer source and destination pickers", client.ActionOpenTransfers),
		pageCmd("settings", "Show the section list", client.ActionOpenSettings),
		pageCmd("edit-site", "Show the per-section path editor", client.ActionEditSite),
	}
	for _, p := range pages {
		p.Flags().BoolVarP(&watch, "watch", "w", false, "Keep rendering pushed updates until interrupted")
		rootCmd.AddCommand(p)
	}
}
