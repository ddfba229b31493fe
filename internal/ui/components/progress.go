package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a playback gauge between the elapsed and total times:
//
//	01:23 ██████░░░░░░░░  42% 03:45
type ProgressBar struct {
	bar      progress.Model
	percent  float64
	elapsed  time.Duration
	duration time.Duration
	width    int

	TimeStyle lipgloss.Style
}

// NewProgressBar creates a new progress bar with default styling.
func NewProgressBar() ProgressBar {
	p := ProgressBar{
		bar: progress.New(
			progress.WithSolidFill("#7571F9"),
			progress.WithFillCharacters('█', '░'),
		),
		TimeStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
	}
	p.bar.EmptyColor = "#606060"
	p.SetWidth(40)
	return p
}

// SetWidth sets the total width available, times included.
func (p *ProgressBar) SetWidth(width int) {
	p.width = width
	// "00:00 " + " 00:00"
	p.bar.Width = max(10, width-12)
}

// Set updates the gauge. percent is clamped to [0, 1].
func (p *ProgressBar) Set(percent float64, elapsed, duration time.Duration) {
	p.percent = max(0, min(1, percent))
	p.elapsed = elapsed
	p.duration = duration
}

// Percent returns the clamped fraction last passed to Set.
func (p ProgressBar) Percent() float64 {
	return p.percent
}

// View renders the gauge.
func (p ProgressBar) View() string {
	return fmt.Sprintf("%s %s %s",
		p.TimeStyle.Render(formatDuration(p.elapsed)),
		p.bar.ViewAs(p.percent),
		p.TimeStyle.Render(formatDuration(p.duration)),
	)
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	total := int(max(0, d).Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
