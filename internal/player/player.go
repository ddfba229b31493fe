package player

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/pcm"
	"github.com/dewi-tim/audium/internal/wav"
)

// DefaultTickInterval is how often subscribers receive playback info.
const DefaultTickInterval = 100 * time.Millisecond

// DecodeFunc turns the bytes of a file into samples.
type DecodeFunc func([]byte) (pcm.Buffer, error)

// decoders maps a file extension, without the dot, to its decoder.
// Matching is case-sensitive.
var decoders = map[string]DecodeFunc{
	"wav":  wav.Decode,
	"wave": wav.Decode,
}

// SupportedExtensions returns the extensions PlayFile accepts, with the dot.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, "."+ext)
	}
	return exts
}

// Player is the control surface the UI drives.
type Player interface {
	// PlayFile replaces the current track with the file at path and starts
	// playing it. On error the previous track keeps playing.
	PlayFile(path string) error
	// TogglePlaying switches between playing and paused.
	TogglePlaying() error
	// Restart moves playback back to the first sample.
	Restart() error

	// Progress returns the raw cursor/length ratio of the current track.
	Progress() float64
	// PauseOrPlayButtonText returns the label for the transport control.
	PauseOrPlayButtonText() string
	// TrackName returns the name of the loaded track.
	TrackName() (string, bool)
	// IsPlaying reports whether playback is active.
	IsPlaying() bool
	// State returns the current playback state.
	State() PlayState
	// Track returns metadata about the current track.
	Track() *Track
	// Info returns current playback information.
	Info() PlaybackInfo

	// Subscribe returns a channel that receives playback info updates.
	Subscribe() <-chan PlaybackInfo
	// Unsubscribe removes a subscription channel.
	Unsubscribe(ch <-chan PlaybackInfo)

	// Close releases all resources.
	Close() error
}

// AudioPlayer implements Player on top of an output driver. It owns at most
// one Engine at a time.
type AudioPlayer struct {
	driver output.Driver

	// Protects everything below, including engine swaps
	mu     sync.Mutex
	engine *Engine
	state  PlayState
	track  *Track

	// Tick goroutine control
	ctx      context.Context
	cancel   context.CancelFunc
	tickOnce sync.Once
	tickWg   sync.WaitGroup

	// Subscribers for playback info updates
	subscribers map[chan PlaybackInfo]struct{}
	subMu       sync.RWMutex
}

// NewAudioPlayer creates a player that opens devices through drv.
func NewAudioPlayer(drv output.Driver) *AudioPlayer {
	ctx, cancel := context.WithCancel(context.Background())

	return &AudioPlayer{
		driver:      drv,
		state:       StateWaitingForFile,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan PlaybackInfo]struct{}),
	}
}

// PlayFile loads path and plays it from the beginning.
//
// The name, extension, read, decode and device steps all run before the
// current engine is touched, so a failure in any of them leaves the player
// as it was. Only if the new stream then refuses to start does the player
// end up empty.
func (p *AudioPlayer) PlayFile(path string) error {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base && base != "." {
		// ".wav" is a hidden file without an extension
		ext = ""
	}
	name := strings.TrimSuffix(base, ext)
	if name == "" || !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, path)
	}

	decode, ok := decoders[strings.TrimPrefix(ext, ".")]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	buf, err := decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", base, err)
	}

	next, err := Prepare(p.driver, buf)
	if err != nil {
		return err
	}

	track := &Track{
		Path:     path,
		Name:     name,
		Samples:  next.Len(),
		Output:   next.Config(),
		Duration: next.Duration(),
	}
	if info, err := wav.Probe(bytes.NewReader(data)); err == nil {
		track.Info = &info
	}
	if layout, err := wav.ReadLayout(bytes.NewReader(data)); err == nil {
		track.Layout = &layout
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()

	if err := next.Play(); err != nil {
		if cerr := next.Close(); cerr != nil {
			log.Printf("close engine after failed start: %v", cerr)
		}
		return err
	}

	p.engine = next
	p.track = track
	p.state = StatePlaying
	return nil
}

// releaseLocked closes the current engine and returns to WaitingForFile
// (must be called with mu held).
func (p *AudioPlayer) releaseLocked() error {
	var err error
	if p.engine != nil {
		err = p.engine.Close()
		if err != nil {
			log.Printf("close engine for %q: %v", p.track.Name, err)
		}
	}
	p.engine = nil
	p.track = nil
	p.state = StateWaitingForFile
	return err
}

// TogglePlaying pauses a playing track and resumes a paused one. With no
// track loaded it does nothing. If the stream rejects the change the state
// is left as it was.
func (p *AudioPlayer) TogglePlaying() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		if err := p.engine.Pause(); err != nil {
			return err
		}
		p.state = StatePaused
	case StatePaused:
		if err := p.engine.Play(); err != nil {
			return err
		}
		p.state = StatePlaying
	}
	return nil
}

// Restart rewinds the current track. The play state does not change.
func (p *AudioPlayer) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine == nil {
		return nil
	}
	return p.engine.Restart()
}

// Progress returns the raw progress of the current track, 0 with none.
func (p *AudioPlayer) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine == nil {
		return 0
	}
	return p.engine.Progress()
}

// PauseOrPlayButtonText returns "Pause" while playing and "Play" otherwise.
func (p *AudioPlayer) PauseOrPlayButtonText() string {
	if p.IsPlaying() {
		return "Pause"
	}
	return "Play"
}

// TrackName returns the stem of the loaded file.
func (p *AudioPlayer) TrackName() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return "", false
	}
	return p.track.Name, true
}

// IsPlaying reports whether the state is StatePlaying.
func (p *AudioPlayer) IsPlaying() bool {
	return p.State() == StatePlaying
}

// State returns the current playback state.
func (p *AudioPlayer) State() PlayState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Track returns a copy of the current track metadata, or nil.
func (p *AudioPlayer) Track() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		return nil
	}
	t := *p.track
	return &t
}

// Info returns current playback information.
func (p *AudioPlayer) Info() PlaybackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := PlaybackInfo{State: p.state}
	if p.engine != nil {
		info.Progress = p.engine.Progress()
		info.Position = p.engine.Position()
		info.Duration = p.engine.Duration()
		info.Finished = p.engine.Finished()
	}
	return info
}

// Subscribe returns a channel that receives playback info every
// DefaultTickInterval until the player is closed.
func (p *AudioPlayer) Subscribe() <-chan PlaybackInfo {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	ch := make(chan PlaybackInfo, 1)
	if p.ctx.Err() != nil {
		close(ch)
		return ch
	}
	p.subscribers[ch] = struct{}{}

	p.tickOnce.Do(func() {
		p.tickWg.Add(1)
		go p.tickLoop()
	})
	return ch
}

// Unsubscribe removes a subscription channel.
func (p *AudioPlayer) Unsubscribe(ch <-chan PlaybackInfo) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for subCh := range p.subscribers {
		if subCh == ch {
			delete(p.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// tickLoop sends periodic playback info updates to subscribers.
func (p *AudioPlayer) tickLoop() {
	defer p.tickWg.Done()

	ticker := time.NewTicker(DefaultTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			info := p.Info()

			// Send to all subscribers (non-blocking)
			p.subMu.RLock()
			for ch := range p.subscribers {
				select {
				case ch <- info:
				default:
					// Drop if channel is full
				}
			}
			p.subMu.RUnlock()
		}
	}
}

// Close releases the engine, stops the tick goroutine and closes all
// subscription channels. The player returns to StateWaitingForFile.
func (p *AudioPlayer) Close() error {
	p.cancel()
	p.tickWg.Wait()

	p.subMu.Lock()
	for ch := range p.subscribers {
		close(ch)
	}
	clear(p.subscribers)
	p.subMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.releaseLocked()
}

// Ensure AudioPlayer implements Player
var _ Player = (*AudioPlayer)(nil)
