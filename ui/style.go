package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Shared lipgloss styles for the CLI and TUI output.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	SelectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("8")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

// StateLabel renders an asset's enabled state as a colored label.
func StateLabel(enabled bool) string {
	if enabled {
		return SuccessStyle.Render("enabled")
	}
	return WarnStyle.Render("disabled")
}

// Truncate shortens a string to maxLen runes with a trailing ellipsis.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
