package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Help, Focused                       lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymOK, SymFail, SymPending, SymItem string
}

var current = themeFor("classic")

func themeFor(name string) Theme {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:        "neon",
			Title:       plain.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       plain.Faint(true),
			Accent:      plain.Foreground(lipgloss.Color("14")),
			Success:     plain.Foreground(lipgloss.Color("10")),
			Error:       plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     plain.Foreground(lipgloss.Color("11")).Italic(true),
			Selected:    plain.Bold(true).Foreground(lipgloss.Color("13")),
			Help:        plain.Faint(true),
			Focused:     plain.Foreground(lipgloss.Color("14")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymOK:       "✔", SymFail: "✖", SymPending: "◌", SymItem: "◼",
		}
	case "mono":
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Reverse(true), Help: plain, Focused: plain.Underline(true),
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
			SymOK:       "ok", SymFail: "x", SymPending: "~", SymItem: "-",
		}
	default: // classic
		return Theme{
			Name:        "classic",
			Title:       plain.Bold(true),
			Muted:       plain.Faint(true),
			Accent:      plain.Foreground(lipgloss.Color("12")),
			Success:     plain.Foreground(lipgloss.Color("42")),
			Error:       plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:     plain.Foreground(lipgloss.Color("214")),
			Selected:    plain.Bold(true).Reverse(true),
			Help:        plain.Faint(true),
			Focused:     plain.Foreground(lipgloss.Color("12")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
			SymOK:       "✔", SymFail: "✖", SymPending: "…", SymItem: "•",
		}
	}
}

// SetTheme switches the theme; unknown names fall back to classic.
func SetTheme(name string) { current = themeFor(name) }

// Current returns the active theme.
func Current() Theme { return current }
