// Package view renders pushed updates for the terminal dashboard. Each
// renderer is a client.Handler bound to one (event, reference) pair.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/clk-66/mrfxp/internal/client"
	"github.com/clk-66/mrfxp/internal/protocol"
)

// Views writes every rendered page to W.
type Views struct {
	w      io.Writer
	logger *slog.Logger
	mu     sync.Mutex
}

func New(w io.Writer, logger *slog.Logger) *Views {
	if logger == nil {
		logger = slog.Default()
	}
	return &Views{w: w, logger: logger}
}

// Routes returns the handler for each page update the service pushes.
func (v *Views) Routes() map[protocol.Key]client.Handler {
	return map[protocol.Key]client.Handler{
		{Event: protocol.EventSetSites, Reference: protocol.RefInitSitesPage}:       v.Sites,
		{Event: protocol.EventSetSites, Reference: protocol.RefInitTransfersPage}:   v.TransferSources,
		{Event: protocol.EventSetSections, Reference: protocol.RefInitSettingsPage}: v.Sections,
		{Event: protocol.EventSetSections, Reference: protocol.RefInitEditSitePage}: v.SectionPaths,
	}
}

// Register binds every route into t.
func (v *Views) Register(t *client.Table) {
	for key, h := range v.Routes() {
		t.Register(key.Event, key.Reference, h)
	}
}

// Sites renders the site listing.
func (v *Views) Sites(data json.RawMessage) {
	var sites []protocol.Site
	if !v.decode("sites", data, &sites) {
		return
	}

	rows := make([][]string, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Hostname + ":" + strconv.Itoa(s.Port),
			strconv.FormatBool(s.TLS),
			s.Username,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Header
			}
			return Cell
		}).
		Headers("ID", "NAME", "HOST", "TLS", "USER").
		Rows(rows...)

	v.write(Title.Render("Sites"), t.Render())
}

// TransferSources renders the site choices for both ends of a transfer.
func (v *Views) TransferSources(data json.RawMessage) {
	var sites []protocol.Site
	if !v.decode("transfer sources", data, &sites) {
		return
	}
	if len(sites) == 0 {
		v.write(Title.Render("Transfer"), Faint.Render("no sites configured"))
		return
	}

	var b strings.Builder
	for _, s := range sites {
		fmt.Fprintf(&b, "  [%d] %s %s\n", s.ID, s.Name, Faint.Render(s.Hostname))
	}
	choices := strings.TrimRight(b.String(), "\n")
	v.write(
		Title.Render("Transfer"),
		"Source:\n"+choices,
		"Destination:\n"+choices,
	)
}

// Sections renders the section management list as colored badges.
func (v *Views) Sections(data json.RawMessage) {
	var sections []protocol.Section
	if !v.decode("sections", data, &sections) {
		return
	}
	if len(sections) == 0 {
		v.write(Title.Render("Sections"), Faint.Render("no sections"))
		return
	}

	badges := make([]string, 0, len(sections))
	for i, s := range sections {
		badges = append(badges, badge(i, s.Name))
	}
	v.write(Title.Render("Sections"), lipgloss.JoinHorizontal(lipgloss.Top, badges...))
}

// SectionPaths renders one path field per section for the site editor.
func (v *Views) SectionPaths(data json.RawMessage) {
	var sections []protocol.Section
	if !v.decode("section paths", data, &sections) {
		return
	}

	blocks := []string{Title.Render("Section paths")}
	for _, s := range sections {
		label := fmt.Sprintf("%s %s", s.Name, Faint.Render("#"+strconv.Itoa(s.ID)))
		blocks = append(blocks, label+"\n"+PathInput.Render(Faint.Render("Section path")))
	}
	v.write(blocks...)
}

func (v *Views) decode(what string, data json.RawMessage, out any) bool {
	if err := json.Unmarshal(data, out); err != nil {
		v.logger.Warn("render: bad payload", "view", what, "err", err)
		v.write(ErrorText.Render("cannot render " + what))
		return false
	}
	return true
}

func (v *Views) write(blocks ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}
