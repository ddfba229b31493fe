// Package ui provides the Bubbletea TUI for audium.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors used throughout the UI.
var (
	// Primary colors
	ColorPrimary = lipgloss.Color("#7571F9")
	ColorMuted   = lipgloss.Color("#606060")

	// State colors
	ColorPlaying = lipgloss.Color("#04B575")
	ColorPaused  = lipgloss.Color("#FFA500")
	ColorWaiting = lipgloss.Color("#A0A0A0")
	ColorError   = lipgloss.Color("#FF5555")

	// Text colors
	ColorText      = lipgloss.Color("#FAFAFA")
	ColorTextMuted = lipgloss.Color("#A0A0A0")
)

// Styles contains all the styles used in the UI.
type Styles struct {
	// Title styles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Text styles
	Text      lipgloss.Style
	TextMuted lipgloss.Style
	TextBold  lipgloss.Style
	Error     lipgloss.Style

	// Status styles
	StatusPlaying lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusWaiting lipgloss.Style

	// Transport button
	Button lipgloss.Style

	// Footer/help styles
	FooterKey  lipgloss.Style
	FooterDesc lipgloss.Style
}

// DefaultStyles returns the default styles for the UI.
func DefaultStyles() Styles {
	return Styles{
		// Titles
		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(ColorTextMuted),

		// Text
		Text: lipgloss.NewStyle().
			Foreground(ColorText),

		TextMuted: lipgloss.NewStyle().
			Foreground(ColorTextMuted),

		TextBold: lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		// Status indicators
		StatusPlaying: lipgloss.NewStyle().
			Foreground(ColorPlaying).
			Bold(true),

		StatusPaused: lipgloss.NewStyle().
			Foreground(ColorPaused).
			Bold(true),

		StatusWaiting: lipgloss.NewStyle().
			Foreground(ColorWaiting),

		Button: lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1),

		// Footer
		FooterKey: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		FooterDesc: lipgloss.NewStyle().
			Foreground(ColorTextMuted),
	}
}

// PanelStyle returns a bordered panel style with the given dimensions.
// width and height are the TOTAL outer dimensions including border.
func (s Styles) PanelStyle(focused bool, width, height int) lipgloss.Style {
	borderColor := ColorMuted
	if focused {
		borderColor = ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(1, width-2)).
		Height(max(1, height-2))
}

// RenderPanel renders content in a panel with a title.
// width and height are the TOTAL outer dimensions including border.
func (s Styles) RenderPanel(title, content string, focused bool, width, height int) string {
	titleStyle := s.TitleMuted
	if focused {
		titleStyle = s.Title
	}

	// Inner height after border (2 lines) and title (1 line)
	maxLines := max(1, height-3)
	lines := strings.Split(content, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for len(lines) < maxLines {
		lines = append(lines, "")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), strings.Join(lines, "\n"))
	return s.PanelStyle(focused, width, height).Render(body)
}
