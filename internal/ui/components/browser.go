// Package components provides UI components for audium.
package components

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BrowserKeyMap defines key bindings for the browser.
type BrowserKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	GoToTop      key.Binding
	GoToBottom   key.Binding
	Open         key.Binding
	Back         key.Binding
	ToggleHidden key.Binding
}

// DefaultBrowserKeyMap returns the default browser key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		GoToTop:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		GoToBottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Open:         key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open/play")),
		Back:         key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("backspace", "parent")),
		ToggleHidden: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden files")),
	}
}

// FileEntry represents a file or directory in the browser.
type FileEntry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// BrowserStyles contains styles for the browser component.
type BrowserStyles struct {
	Cursor      lipgloss.Style
	Directory   lipgloss.Style
	AudioFile   lipgloss.Style
	Selected    lipgloss.Style
	SelectedDir lipgloss.Style
	Muted       lipgloss.Style
	EmptyDir    lipgloss.Style
}

// DefaultBrowserStyles returns the default browser styles.
func DefaultBrowserStyles() BrowserStyles {
	return BrowserStyles{
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7571F9")).Bold(true),
		Directory:   lipgloss.NewStyle().Foreground(lipgloss.Color("#99CCFF")),
		AudioFile:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7571F9")).Bold(true),
		SelectedDir: lipgloss.NewStyle().Foreground(lipgloss.Color("#7571F9")).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#606060")),
		EmptyDir:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")).Italic(true),
	}
}

// FileSelectedMsg is sent when a playable file is chosen.
type FileSelectedMsg struct {
	Path string
}

// BrowserReadDirMsg carries the contents of a directory read in the
// background. Select names the entry to put the cursor on, if present.
type BrowserReadDirMsg struct {
	Dir     string
	Entries []FileEntry
	Select  string
	Err     error
}

// Browser lists directories and the files whose extension is in its
// playable set.
type Browser struct {
	currentDir string
	entries    []FileEntry
	extensions []string

	// Selection state
	selected int
	offset   int // First visible index

	// Dimensions
	width  int
	height int

	// State
	focused    bool
	showHidden bool
	err        error

	KeyMap BrowserKeyMap
	Styles BrowserStyles
}

// NewBrowser creates a browser at startDir listing files with one of the
// given extensions (with the dot, matched case-sensitively).
func NewBrowser(startDir string, extensions []string) Browser {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(startDir); err == nil {
		startDir = abs
	}

	return Browser{
		currentDir: startDir,
		extensions: extensions,
		width:      30,
		height:     10,
		KeyMap:     DefaultBrowserKeyMap(),
		Styles:     DefaultBrowserStyles(),
	}
}

// Init returns a command to read the start directory.
func (b Browser) Init() tea.Cmd {
	return b.readDir(b.currentDir, "")
}

func (b Browser) readDir(path, sel string) tea.Cmd {
	showHidden := b.showHidden
	exts := b.extensions
	return func() tea.Msg {
		entries, err := readDirFiltered(path, exts, showHidden)
		return BrowserReadDirMsg{Dir: path, Entries: entries, Select: sel, Err: err}
	}
}

// readDirFiltered lists path, directories first, then playable files, each
// group sorted case-insensitively.
func readDirFiltered(path string, exts []string, showHidden bool) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	for _, de := range dirEntries {
		name := de.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !de.IsDir() && !slices.Contains(exts, filepath.Ext(name)) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, FileEntry{
			Name:  name,
			Path:  filepath.Join(path, name),
			IsDir: de.IsDir(),
			Size:  info.Size(),
		})
	}

	slices.SortFunc(entries, func(a, b FileEntry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entries, nil
}

// Update handles messages and updates the browser state.
func (b Browser) Update(msg tea.Msg) (Browser, tea.Cmd) {
	switch msg := msg.(type) {
	case BrowserReadDirMsg:
		if msg.Err != nil {
			b.err = msg.Err
			return b, nil
		}
		b.currentDir = msg.Dir
		b.entries = msg.Entries
		b.err = nil
		b.selected = 0
		if msg.Select != "" {
			if i := slices.IndexFunc(b.entries, func(e FileEntry) bool { return e.Name == msg.Select }); i >= 0 {
				b.selected = i
			}
		}
		b.scrollToSelection()
		return b, nil

	case tea.KeyMsg:
		if !b.focused {
			return b, nil
		}
		return b.handleKeyMsg(msg)
	}

	return b, nil
}

func (b Browser) handleKeyMsg(msg tea.KeyMsg) (Browser, tea.Cmd) {
	page := b.visibleCount()

	switch {
	case key.Matches(msg, b.KeyMap.Up):
		b.move(-1)
	case key.Matches(msg, b.KeyMap.Down):
		b.move(1)
	case key.Matches(msg, b.KeyMap.PageUp):
		b.move(-page)
	case key.Matches(msg, b.KeyMap.PageDown):
		b.move(page)
	case key.Matches(msg, b.KeyMap.GoToTop):
		b.move(-len(b.entries))
	case key.Matches(msg, b.KeyMap.GoToBottom):
		b.move(len(b.entries))
	case key.Matches(msg, b.KeyMap.Open):
		return b, b.openSelected()
	case key.Matches(msg, b.KeyMap.Back):
		return b, b.goToParent()
	case key.Matches(msg, b.KeyMap.ToggleHidden):
		b.showHidden = !b.showHidden
		var sel string
		if e := b.SelectedEntry(); e != nil {
			sel = e.Name
		}
		return b, b.readDir(b.currentDir, sel)
	}
	return b, nil
}

// move shifts the selection by delta, clamped to the entry list.
func (b *Browser) move(delta int) {
	if len(b.entries) == 0 {
		return
	}
	b.selected = max(0, min(len(b.entries)-1, b.selected+delta))
	b.scrollToSelection()
}

func (b *Browser) scrollToSelection() {
	visible := b.visibleCount()
	if b.selected < b.offset {
		b.offset = b.selected
	}
	if b.selected >= b.offset+visible {
		b.offset = b.selected - visible + 1
	}
	b.offset = max(0, min(b.offset, len(b.entries)-visible))
}

func (b Browser) openSelected() tea.Cmd {
	entry := b.SelectedEntry()
	if entry == nil {
		return nil
	}
	if entry.IsDir {
		return b.readDir(entry.Path, "")
	}
	path := entry.Path
	return func() tea.Msg { return FileSelectedMsg{Path: path} }
}

// goToParent reads the parent directory and reselects the one we left.
func (b Browser) goToParent() tea.Cmd {
	parent := filepath.Dir(b.currentDir)
	if parent == b.currentDir {
		return nil
	}
	return b.readDir(parent, filepath.Base(b.currentDir))
}

// visibleCount returns the number of entry rows below the path header.
func (b Browser) visibleCount() int {
	return max(1, b.height-1)
}

// View renders the browser.
func (b Browser) View() string {
	var s strings.Builder

	dir := b.currentDir
	if maxLen := max(10, b.width-2); len(dir) > maxLen {
		dir = "..." + dir[len(dir)-maxLen+3:]
	}
	s.WriteString(b.Styles.Muted.Render(dir))
	s.WriteRune('\n')

	switch {
	case b.err != nil:
		s.WriteString(b.Styles.Muted.Render("Error: " + b.err.Error()))
	case len(b.entries) == 0:
		s.WriteString(b.Styles.EmptyDir.Render("(no playable files)"))
	default:
		nameWidth := max(5, b.width-2)
		end := min(len(b.entries), b.offset+b.visibleCount())
		for i := b.offset; i < end; i++ {
			s.WriteString(b.renderEntry(b.entries[i], i == b.selected, nameWidth))
			s.WriteRune('\n')
		}
	}

	return b.constrainToHeight(s.String())
}

func (b Browser) renderEntry(e FileEntry, selected bool, width int) string {
	name := e.Name
	if e.IsDir {
		name = "[" + name + "]"
	}
	name = fitName(name, width, selected)

	cursor := "  "
	style := b.Styles.AudioFile
	switch {
	case selected && e.IsDir:
		cursor, style = b.Styles.Cursor.Render("> "), b.Styles.SelectedDir
	case selected:
		cursor, style = b.Styles.Cursor.Render("> "), b.Styles.Selected
	case e.IsDir:
		style = b.Styles.Directory
	}
	return cursor + style.Render(name)
}

// fitName shortens name to width. The selected row keeps the end of the
// name visible, others keep the start.
func fitName(name string, width int, selected bool) string {
	if len(name) <= width {
		return name
	}
	keep := max(1, width-3)
	if selected {
		return "..." + name[len(name)-keep:]
	}
	return name[:keep] + "..."
}

// constrainToHeight pads or truncates content to exactly the browser height.
func (b Browser) constrainToHeight(content string) string {
	if b.height <= 0 {
		return content
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) > b.height {
		lines = lines[:b.height]
	}
	for len(lines) < b.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// SetSize sets the browser dimensions.
func (b *Browser) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.scrollToSelection()
}

// Focus sets the browser as focused.
func (b *Browser) Focus() { b.focused = true }

// Blur removes focus from the browser.
func (b *Browser) Blur() { b.focused = false }

// IsFocused returns whether the browser is focused.
func (b Browser) IsFocused() bool { return b.focused }

// CurrentDir returns the current directory path.
func (b Browser) CurrentDir() string { return b.currentDir }

// SelectedEntry returns the currently selected entry, or nil if none.
func (b Browser) SelectedEntry() *FileEntry {
	if b.selected < 0 || b.selected >= len(b.entries) {
		return nil
	}
	entry := b.entries[b.selected]
	return &entry
}
