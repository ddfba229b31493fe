package ui

import (
	"log"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/audium/internal/player"
	"github.com/dewi-tim/audium/internal/ui/components"
)

// Message types for the TUI.
type (
	// TickMsg is sent periodically to poll the player.
	TickMsg time.Time

	// FileLoadedMsg reports the result of a background PlayFile.
	FileLoadedMsg struct {
		Path string
		Err  error
	}
)

// playFileCmd loads path off the UI goroutine.
func playFileCmd(p player.Player, path string) tea.Cmd {
	return func() tea.Msg {
		return FileLoadedMsg{Path: path, Err: p.PlayFile(path)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.helpPopup.Visible() {
			m.helpPopup, cmd = m.helpPopup.Update(msg)
			return m, cmd
		}
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case components.FileSelectedMsg:
		// One load at a time; selections made while loading are dropped.
		if m.loading != "" {
			log.Printf("still loading %s, ignoring %s", m.loading, msg.Path)
			return m, nil
		}
		m.loading = filepath.Base(msg.Path)
		return m, playFileCmd(m.player, msg.Path)

	case FileLoadedMsg:
		m.loading = ""
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			log.Printf("playing %s", msg.Path)
		}
		m.refresh()
		return m, nil

	case components.BrowserReadDirMsg:
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global key bindings (work regardless of focus)
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.helpPopup.Show()
		return m, nil

	case key.Matches(msg, m.keyMap.PlayPause):
		if err := m.player.TogglePlaying(); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Restart):
		if err := m.player.Restart(); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.TabFocus):
		if m.focus == FocusBrowser {
			m.focus = FocusPlayer
			m.browser.Blur()
		} else {
			m.focus = FocusBrowser
			m.browser.Focus()
		}
		return m, nil
	}

	if m.focus == FocusBrowser {
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setError shows err in the footer and logs it.
func (m *Model) setError(err error) {
	log.Printf("error: %v", err)
	m.lastError = err.Error()
	m.errorTime = time.Now()
}
