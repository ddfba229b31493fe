// Package player provides WAV playback: the realtime Engine that feeds an
// output stream, and the AudioPlayer state machine the UI drives.
package player

import (
	"time"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/wav"
)

// Track represents the loaded file.
type Track struct {
	// File path and stem
	Path string
	Name string

	// Decoded sample count, interleaved
	Samples int

	// Header information read by wav.Probe. Display only; nil when the fmt
	// chunk could not be read.
	Info *wav.Info

	// RIFF chunk layout, nil when the container could not be walked
	Layout *wav.Layout

	// Configuration the samples are played at
	Output output.Config

	// Duration at the output configuration
	Duration time.Duration
}

// PlayState represents the current playback state.
type PlayState int

const (
	// StateWaitingForFile indicates no track has been loaded.
	StateWaitingForFile PlayState = iota
	// StatePlaying indicates playback is active.
	StatePlaying
	// StatePaused indicates playback is paused.
	StatePaused
)

// String returns a human-readable name for the play state.
func (s PlayState) String() string {
	switch s {
	case StateWaitingForFile:
		return "Waiting for file"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// PlaybackInfo contains information about the current playback.
type PlaybackInfo struct {
	// Current state
	State PlayState

	// Raw cursor/length ratio; may exceed 1 after the end
	Progress float64

	// Position information
	Position time.Duration
	Duration time.Duration

	// Every sample has been handed to the device. True as soon as an
	// empty track starts.
	Finished bool
}

// Clamped returns the progress limited to [0, 1].
func (p PlaybackInfo) Clamped() float64 {
	return max(0, min(1, p.Progress))
}

// Remaining returns the remaining playback time.
func (p PlaybackInfo) Remaining() time.Duration {
	remaining := p.Duration - p.Position
	if remaining < 0 {
		return 0
	}
	return remaining
}
