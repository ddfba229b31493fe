package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpSection is a titled group of key bindings.
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpPopup is a scrollable overlay listing key bindings.
type HelpPopup struct {
	viewport viewport.Model
	sections []HelpSection
	visible  bool
	width    int
	height   int

	keys helpKeyMap

	borderStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	categoryStyle lipgloss.Style
	keyStyle      lipgloss.Style
	descStyle     lipgloss.Style
	footerStyle   lipgloss.Style
}

type helpKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Close    key.Binding
}

// NewHelpPopup creates a hidden help popup for the given sections.
func NewHelpPopup(sections ...HelpSection) HelpPopup {
	vp := viewport.New(46, 16)
	vp.MouseWheelEnabled = true

	h := HelpPopup{
		viewport: vp,
		sections: sections,
		width:    50,
		height:   20,
		keys: helpKeyMap{
			Up:       key.NewBinding(key.WithKeys("k", "up")),
			Down:     key.NewBinding(key.WithKeys("j", "down")),
			PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
			PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
			Close:    key.NewBinding(key.WithKeys("?", "esc", "enter", "q")),
		},
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7571F9")),
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		categoryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true),
		keyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7571F9")).
			Bold(true),
		descStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			Italic(true),
	}
	h.viewport.SetContent(h.content())
	return h
}

// Update handles key presses while the popup is visible.
func (h HelpPopup) Update(msg tea.Msg) (HelpPopup, tea.Cmd) {
	if !h.visible {
		return h, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, h.keys.Close):
			h.visible = false
			return h, nil
		case key.Matches(msg, h.keys.Up):
			h.viewport.ScrollUp(1)
		case key.Matches(msg, h.keys.Down):
			h.viewport.ScrollDown(1)
		case key.Matches(msg, h.keys.PageUp):
			h.viewport.PageUp()
		case key.Matches(msg, h.keys.PageDown):
			h.viewport.PageDown()
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View renders the popup box, or "" when hidden.
func (h HelpPopup) View() string {
	if !h.visible {
		return ""
	}

	footer := lipgloss.NewStyle().
		Width(h.viewport.Width).
		Align(lipgloss.Center).
		Render(h.footerStyle.Render("Press ? or Esc to close"))

	box := h.borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		h.titleStyle.Render("Help"),
		h.viewport.View(),
		footer,
	))
	return box
}

func (h HelpPopup) content() string {
	var b strings.Builder
	for i, s := range h.sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h.categoryStyle.Render(s.Title))
		b.WriteString("\n")
		for _, kb := range s.Bindings {
			help := kb.Help()
			b.WriteString(lipgloss.NewStyle().Width(14).Render(h.keyStyle.Render(help.Key)))
			b.WriteString(h.descStyle.Render(help.Desc))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SetSize fits the popup into a terminal of the given size.
func (h *HelpPopup) SetSize(width, height int) {
	h.width = max(40, min(60, width*70/100))
	h.height = max(12, min(30, height*80/100))

	// border (2) + title (1) + footer (1)
	h.viewport.Width = h.width - 4
	h.viewport.Height = h.height - 4
}

// Show makes the help popup visible.
func (h *HelpPopup) Show() {
	h.visible = true
	h.viewport.GotoTop()
}

// Hide makes the help popup invisible.
func (h *HelpPopup) Hide() {
	h.visible = false
}

// Visible returns whether the help popup is visible.
func (h HelpPopup) Visible() bool {
	return h.visible
}

// Toggle toggles the visibility of the help popup.
func (h *HelpPopup) Toggle() {
	if h.visible {
		h.Hide()
	} else {
		h.Show()
	}
}
