// Package ui holds the lipgloss styling for the agenthub TUI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette.
type Theme struct {
	IsDark     bool
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DarkTheme returns the palette for dark terminals.
func DarkTheme() Theme {
	return Theme{
		IsDark:     true,
		Primary:    lipgloss.Color("#7c3aed"),
		Accent:     lipgloss.Color("#22d3ee"),
		Foreground: lipgloss.Color("#e5e7eb"),
		Muted:      lipgloss.Color("#6b7280"),
		Success:    lipgloss.Color("#34d399"),
		Warning:    lipgloss.Color("#fbbf24"),
		Error:      lipgloss.Color("#f87171"),
	}
}

// LightTheme returns the palette for light terminals.
func LightTheme() Theme {
	return Theme{
		IsDark:     false,
		Primary:    lipgloss.Color("#6d28d9"),
		Accent:     lipgloss.Color("#0e7490"),
		Foreground: lipgloss.Color("#1f2937"),
		Muted:      lipgloss.Color("#9ca3af"),
		Success:    lipgloss.Color("#059669"),
		Warning:    lipgloss.Color("#b45309"),
		Error:      lipgloss.Color("#b91c1c"),
	}
}

// ThemeFor resolves a configured theme name, with "auto" falling back to an
// environment heuristic.
func ThemeFor(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	if os.Getenv("AGENTHUB_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return DarkTheme()
}

// Styles holds the styled components used by the chat TUI.
type Styles struct {
	Theme Theme

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	Prompt        lipgloss.Style
	UserMessage   lipgloss.Style
	AgentMessage  lipgloss.Style
	ToolBadge     lipgloss.Style
	DegradedBadge lipgloss.Style
	ScoreBadge    lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		AgentMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ToolBadge: lipgloss.NewStyle().
			Foreground(theme.Accent),

		DegradedBadge: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		ScoreBadge: lipgloss.NewStyle().
			Foreground(theme.Success),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(ThemeFor("auto"))
}
