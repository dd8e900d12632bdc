// Package theme holds the shared lipgloss styles of the terminal UI.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nhle/taskmate/internal/model"
)

// Palette, as {dark background, light background} pairs. The accents
// follow the list colors offered in model.Palette.
var (
	ColorAccent = lipgloss.AdaptiveColor{Dark: "#0A84FF", Light: "#007AFF"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF453A", Light: "#D70015"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FF9F0A", Light: "#C93400"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD60A", Light: "#A05A00"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#98989D", Light: "#6C6C70"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F2F2F7", Light: "#1C1C1E"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#3A3A3C", Light: "#D1D1D6"}
)

// Frame.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorAccent).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorSubtle).
			Padding(0, 1)

	DetailPanelStyle = lipgloss.NewStyle().
				Padding(1, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSubtle)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
)

// Rows of the home and task screens.
var (
	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	// SelectedItemStyle marks the cursor row with a left rule.
	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Bold(true).
				Foreground(ColorAccent).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorAccent)

	DimmedStyle   = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	OverdueStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	DueDateStyle  = lipgloss.NewStyle().Foreground(ColorGray)
	FlagStyle     = lipgloss.NewStyle().Foreground(ColorOrange)
	priorityStyle = lipgloss.NewStyle().Bold(true)
)

// PriorityStyle colors a priority marker; whenever and unknown values are gray.
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return priorityStyle.Foreground(ColorRed)
	case model.PriorityMedium:
		return priorityStyle.Foreground(ColorOrange)
	case model.PriorityLow:
		return priorityStyle.Foreground(ColorYellow)
	}
	return priorityStyle.Foreground(ColorGray)
}

// ListColorStyle returns a bold style in the list's own color. Alpha is
// dropped since terminals have no use for it.
func ListColorStyle(c model.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(c.RGBHex()))
}

// Apply configures the renderer for the display.theme setting: "dark"
// or "light" force the background, anything else keeps detection.
// NO_COLOR turns colors off; a 256-color TERM upgrades a weaker guess.
func Apply(name string) {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}

	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	if profile == termenv.ANSI && strings.Contains(os.Getenv("TERM"), "256color") {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}
