package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/dewi-tim/audium/internal/ui/components"
)

// KeyMap defines the global key bindings.
type KeyMap struct {
	// Playback controls
	PlayPause key.Binding
	Restart   key.Binding

	// Navigation
	TabFocus key.Binding

	// Help and Quit
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		TabFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
// Implements the help.KeyMap interface.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Restart, k.Help, k.Quit}
}

// FullHelp returns keybindings to show in the full help view.
// Implements the help.KeyMap interface.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Restart},
		{k.TabFocus, k.Help, k.Quit},
	}
}

// helpSections groups the global and browser bindings for the help popup.
func helpSections(k KeyMap, b components.BrowserKeyMap) []components.HelpSection {
	return []components.HelpSection{
		{Title: "Playback", Bindings: []key.Binding{k.PlayPause, k.Restart}},
		{Title: "Global", Bindings: []key.Binding{k.TabFocus, k.Help, k.Quit}},
		{Title: "Browser", Bindings: []key.Binding{
			b.Up, b.Down, b.PageUp, b.PageDown, b.GoToTop, b.GoToBottom,
			b.Open, b.Back, b.ToggleHidden,
		}},
	}
}
