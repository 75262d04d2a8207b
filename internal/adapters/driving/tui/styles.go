package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the chat view.
type Styles struct {
	Title     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Source    lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Spinner   lipgloss.Style
	InputBox  lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		User: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Source: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
