// Package render formats analysis results for the terminal using lipgloss.
package render

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the CLI output.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),
		Bold: lipgloss.NewStyle().
			Bold(true),
		Body: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C6C6C")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true),
	}
}
