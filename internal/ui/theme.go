package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the dashboard.
type Theme struct {
	Name string

	Text          string
	Muted         string
	Accent        string
	Success       string
	Warning       string
	Danger        string
	Border        string
	SelectionBg   string
	SelectionText string
}

var darkTheme = Theme{
	Name:          "dark",
	Text:          "#c6d0f5",
	Muted:         "#737994",
	Accent:        "#8caaee",
	Success:       "#a6d189",
	Warning:       "#e5c890",
	Danger:        "#e78284",
	Border:        "#51576d",
	SelectionBg:   "#414559",
	SelectionText: "#c6d0f5",
}

var lightTheme = Theme{
	Name:          "light",
	Text:          "#4c4f69",
	Muted:         "#9ca0b0",
	Accent:        "#1e66f5",
	Success:       "#40a02b",
	Warning:       "#df8e1d",
	Danger:        "#d20f39",
	Border:        "#bcc0cc",
	SelectionBg:   "#ccd0da",
	SelectionText: "#4c4f69",
}

// ThemeByName resolves a preference name to a theme, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return lightTheme
	}
	return darkTheme
}

// NextTheme cycles to the other theme.
func NextTheme(current Theme) Theme {
	if current.Name == "dark" {
		return lightTheme
	}
	return darkTheme
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Banner  lipgloss.Style
	Border  lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Bold(true),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Warning)),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
	}
}
