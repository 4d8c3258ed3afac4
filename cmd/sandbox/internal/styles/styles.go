package styles

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the run loop.
var (
	// Status bar.
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // yellow
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // gray
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	// Narrative body.
	BodyStyle = lipgloss.NewStyle().PaddingLeft(2).PaddingRight(2)

	// Help panel border.
	HelpBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4"))

	// Wizard diff lines.
	DiffAddStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	DiffDelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	DiffHdrStyle = lipgloss.NewStyle().Bold(true)
)
