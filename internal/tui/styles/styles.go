// Package styles holds the shared lipgloss styles for the dashboard.
// The palette is switchable between a dark and a light catppuccin flavor.
package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Palette colors, set by SetTheme.
var (
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Green     lipgloss.Color
	Red       lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color
)

// Text styles, rebuilt by SetTheme.
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	Liked     lipgloss.Style
	ErrorText lipgloss.Style

	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	SetTheme("dark")
}

// SetTheme selects the palette. "auto" follows the terminal background.
func SetTheme(theme string) {
	if theme == "auto" {
		if lipgloss.HasDarkBackground() {
			theme = "dark"
		} else {
			theme = "light"
		}
	}

	var flavor catppuccin.Flavor = catppuccin.Mocha
	if theme == "light" {
		flavor = catppuccin.Latte
	}

	Primary = lipgloss.Color(flavor.Mauve().Hex)
	Accent = lipgloss.Color(flavor.Peach().Hex)
	Green = lipgloss.Color(flavor.Green().Hex)
	Red = lipgloss.Color(flavor.Red().Hex)
	Text = lipgloss.Color(flavor.Text().Hex)
	TextMuted = lipgloss.Color(flavor.Subtext0().Hex)
	TextDim = lipgloss.Color(flavor.Overlay0().Hex)
	Border = lipgloss.Color(flavor.Surface1().Hex)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Green)
	Paused = lipgloss.NewStyle().Foreground(Accent)
	Liked = lipgloss.NewStyle().Foreground(Red)
	ErrorText = lipgloss.NewStyle().Bold(true).Foreground(Red)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// Panel returns the bordered panel style, highlighted when focused.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle renders a panel title, highlighted when focused.
func PanelTitle(title string, focused bool) string {
	if focused {
		return Highlight.Render(" " + title + " ")
	}
	return Dim.Render(" " + title + " ")
}

// StatusIcon returns the transport icon for the playing state.
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// ProgressBar renders a percentage bar of the given width.
func ProgressBar(percent float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	full := strings.Repeat("█", filled)
	rest := strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(Primary).Render(full) + Dim.Render(rest)
}
