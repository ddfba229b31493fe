package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dewi-tim/audium/internal/player"
)

const (
	// Minimum dimensions
	minWidth  = 60
	minHeight = 15

	// Panel proportions
	browserWidthPercent = 40

	// Transport box: border (2) + status line + gauge line
	transportHeight = 4
)

// dimensions returns the browser panel width, the right column width and
// the height shared by both columns.
func (m Model) dimensions() (left, right, body int) {
	left = m.width * browserWidthPercent / 100
	right = m.width - left - 1
	body = m.height - 1 // footer
	return left, right, body
}

// layout resizes the components after a window size change.
func (m *Model) layout() {
	left, right, body := m.dimensions()
	// border (2) + title (1)
	m.browser.SetSize(left-2, body-3)
	// border (2) + padding (2)
	m.progress.SetWidth(right - 4)
	m.helpPopup.SetSize(m.width, m.height)
}

// View renders the entire UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	left, right, body := m.dimensions()

	rightPane := lipgloss.JoinVertical(lipgloss.Left,
		m.renderNowPlaying(right, body-transportHeight),
		m.renderTransport(right),
	)
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.RenderPanel("Files", m.browser.View(), m.focus == FocusBrowser, left, body),
		" ",
		rightPane,
	)

	mainView := lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderFooter())

	if m.helpPopup.Visible() {
		return overlay(mainView, m.helpPopup.View(), m.width)
	}
	return mainView
}

// overlay draws popup centred on top of base.
func overlay(base, popup string, width int) string {
	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	x := max(0, (width-lipgloss.Width(popup))/2)
	y := max(0, (len(baseLines)-len(popupLines))/2)

	for i, line := range popupLines {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		under := baseLines[row]
		prefix := ansi.Truncate(under, x, "")
		if w := ansi.StringWidth(prefix); w < x {
			prefix += strings.Repeat(" ", x-w)
		}
		suffix := ansi.TruncateLeft(under, x+ansi.StringWidth(line), "")
		baseLines[row] = prefix + line + suffix
	}
	return strings.Join(baseLines, "\n")
}

// renderTooSmall renders a message when the terminal is too small.
func (m Model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small\nNeed at least %dx%d\nCurrent: %dx%d",
		minWidth, minHeight, m.width, m.height)
	return m.styles.TextMuted.Render(msg)
}

// renderNowPlaying renders the track and output details.
func (m Model) renderNowPlaying(width, height int) string {
	var content strings.Builder

	field := func(label, value string) {
		line := m.styles.TextMuted.Render(label) + " " + m.styles.Text.Render(value)
		content.WriteString(ansi.Truncate(line, width-2, "…"))
		content.WriteString("\n")
	}

	if m.track == nil {
		content.WriteString(m.styles.TextMuted.Render("No file loaded"))
		content.WriteString("\n")
		content.WriteString(m.styles.TextMuted.Render("Select a .wav file from the browser"))
	} else {
		content.WriteString(m.styles.TextBold.Render(m.trackName))
		content.WriteString("\n\n")
		field("Path:   ", m.track.Path)
		if m.track.Info != nil {
			field("File:   ", m.track.Info.String())
		}
		if m.track.Layout != nil {
			field("Chunks: ", m.track.Layout.String())
		}
		field("Output: ", m.track.Output.String())
		field("Length: ", m.track.Duration.Round(100 * time.Millisecond).String())
	}

	return m.styles.RenderPanel("Now Playing", content.String(), m.focus == FocusPlayer, width, height)
}

// renderTransport renders the play state, the button label and the gauge.
func (m Model) renderTransport(width int) string {
	var statusStyle lipgloss.Style
	var statusIcon string

	switch m.info.State {
	case player.StatePlaying:
		statusStyle = m.styles.StatusPlaying
		statusIcon = ">"
	case player.StatePaused:
		statusStyle = m.styles.StatusPaused
		statusIcon = "||"
	default:
		statusStyle = m.styles.StatusWaiting
		statusIcon = "[]"
	}

	status := statusStyle.Render(statusIcon + " " + m.info.State.String())
	if m.loading != "" {
		status = m.styles.TextMuted.Render("Loading " + m.loading + "...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Button.Render(m.buttonText)+"  "+status,
		m.progress.View(),
	)

	style := lipgloss.NewStyle().
		Width(width-2).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)

	return style.Render(content)
}

// renderFooter renders the error line or the key hints.
func (m Model) renderFooter() string {
	var content strings.Builder

	if msg := m.LastError(); msg != "" {
		content.WriteString(m.styles.Error.Render("Error: " + msg))
		content.WriteString("  ")
	}

	hint := func(k, desc string) {
		content.WriteString(m.styles.FooterKey.Render(k))
		content.WriteString(m.styles.FooterDesc.Render(":" + desc + " "))
	}

	if m.focus == FocusBrowser {
		hint("Enter", "play")
		hint(".", "hidden")
	}
	hint("Space", strings.ToLower(m.buttonText))
	hint("r", "restart")
	hint("Tab", "focus")
	hint("?", "help")
	hint("q", "quit")

	return ansi.Truncate(content.String(), m.width, "…")
}
