package view

import "github.com/charmbracelet/lipgloss"

// Colors for section badges, cycled in order.
var badgeColors = []lipgloss.Color{
	lipgloss.Color("#3B82F6"), // primary
	lipgloss.Color("#22C55E"), // success
	lipgloss.Color("#06B6D4"), // info
	lipgloss.Color("#F59E0B"), // warning
	lipgloss.Color("#EF4444"), // danger
}

var (
	Muted  = lipgloss.Color("#6B7280")
	Border = lipgloss.Color("#4B5563")
	Error  = lipgloss.Color("#EF4444")
)

var (
	Title     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	Faint     = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Header    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	Cell      = lipgloss.NewStyle().Padding(0, 1)
	Badge     = lipgloss.NewStyle().Padding(0, 1).MarginRight(1).Bold(true)
)

var PathInput = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1).
	Width(40)

func badge(i int, text string) string {
	return Badge.Foreground(badgeColors[i%len(badgeColors)]).Render(text)
}
