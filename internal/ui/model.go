package ui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/audium/internal/player"
	"github.com/dewi-tim/audium/internal/ui/components"
)

// TickInterval is how often the model polls the player.
const TickInterval = 100 * time.Millisecond

// errorDisplayTime is how long a load or transport error stays in the footer.
const errorDisplayTime = 5 * time.Second

// Focus represents which panel is currently focused.
type Focus int

const (
	FocusBrowser Focus = iota
	FocusPlayer
)

// Model is the main Bubbletea model for audium.
type Model struct {
	// Window dimensions
	width  int
	height int

	// Focus management
	focus Focus

	// Playback control
	player player.Player

	// UI Components
	browser   components.Browser
	progress  components.ProgressBar
	helpPopup components.HelpPopup

	// Key bindings
	keyMap KeyMap

	// Snapshot of the player, refreshed every tick
	info       player.PlaybackInfo
	track      *player.Track
	trackName  string
	buttonText string

	// UI state
	startFile string
	loading   string
	lastError string
	errorTime time.Time
	quitting  bool

	// Styles
	styles Styles
}

// New creates a Model driving p, with the file browser opened at startDir.
func New(p player.Player, startDir string) Model {
	browser := components.NewBrowser(startDir, player.SupportedExtensions())
	browser.Focus()
	keyMap := DefaultKeyMap()

	m := Model{
		focus:     FocusBrowser,
		player:    p,
		browser:   browser,
		progress:  components.NewProgressBar(),
		helpPopup: components.NewHelpPopup(helpSections(keyMap, browser.KeyMap)...),
		keyMap:    keyMap,
		styles:    DefaultStyles(),
	}
	m.refresh()
	return m
}

// WithFile makes the model load path as soon as the program starts.
func (m Model) WithFile(path string) Model {
	if path != "" {
		m.startFile = path
		m.loading = filepath.Base(path)
	}
	return m
}

// Init returns the initial commands: the first tick, the directory read and
// the start file, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.browser.Init()}
	if m.startFile != "" {
		cmds = append(cmds, playFileCmd(m.player, m.startFile))
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that ticks every TickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refresh copies the player's current state into the model.
func (m *Model) refresh() {
	m.info = m.player.Info()
	m.track = m.player.Track()
	m.trackName, _ = m.player.TrackName()
	m.buttonText = m.player.PauseOrPlayButtonText()
	m.progress.Set(m.info.Clamped(), m.info.Position, m.info.Duration)
}

// Focus returns the currently focused panel.
func (m Model) Focus() Focus {
	return m.focus
}

// LastError returns the message shown in the footer, if still current.
func (m Model) LastError() string {
	if m.lastError == "" || time.Since(m.errorTime) >= errorDisplayTime {
		return ""
	}
	return m.lastError
}
