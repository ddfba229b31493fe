// Package output abstracts the operating system's audio output.
//
// A Driver opens the default playback Device, which reports its native
// Config and builds a Stream around a fill callback. The callback runs on the
// backend's audio thread and must fill the whole slice it is given.
package output

import (
	"errors"
	"fmt"
	"time"

	"github.com/dewi-tim/audium/internal/pcm"
)

var (
	ErrNoDevice          = errors.New("no output device available")
	ErrConfig            = errors.New("cannot query output configuration")
	ErrUnsupportedFormat = errors.New("unsupported output sample format")
	ErrClosed            = errors.New("output device closed")
)

// Backend names accepted by New.
const (
	BackendMalgo     = "malgo"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
)

// Backends lists the accepted backend names, default first.
var Backends = []string{BackendMalgo, BackendOto, BackendPortAudio}

// Config is the stream configuration a device plays at.
type Config struct {
	SampleRate int
	Channels   int
	Format     pcm.Format
}

func (c Config) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %s", c.SampleRate, c.Channels, c.Format)
}

// Validate reports whether c describes a playable stream.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrConfig, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrConfig, c.Channels)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format)
	}
	return nil
}

// Duration returns how long n interleaved samples play for at c.
func (c Config) Duration(n uint64) time.Duration {
	perSecond := uint64(c.SampleRate) * uint64(c.Channels)
	if perSecond == 0 {
		return 0
	}
	secs := n / perSecond
	rem := n % perSecond
	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/time.Duration(perSecond)
}

// FillFunc writes interleaved samples in the stream's format into out.
// It is called from the audio thread and must not block.
type FillFunc func(out []byte)

// Driver opens playback devices on one audio backend.
type Driver interface {
	Name() string
	// Open acquires the default playback device. It returns an error
	// matching ErrNoDevice when the host has none.
	Open() (Device, error)
}

// Device is an acquired playback device.
type Device interface {
	// Config returns the device's native stream configuration.
	Config() (Config, error)
	// Build creates a stopped stream that pulls samples from fill.
	Build(cfg Config, fill FillFunc) (Stream, error)
	// Close releases the device. Streams must be closed first.
	Close() error
}

// Stream is a running or paused connection to a device.
type Stream interface {
	Play() error
	Pause() error
	Close() error
}

// Flusher is implemented by streams that read ahead of the fill callback.
// Flush drops whatever they buffered, so the next sample played is the
// next one filled.
type Flusher interface {
	Flush() error
}

// New returns the driver for backend. fallback is the configuration used by
// backends that cannot query the device.
func New(backend string, fallback Config) (Driver, error) {
	switch backend {
	case "", BackendMalgo:
		return NewMalgo(), nil
	case BackendOto:
		if err := fallback.Validate(); err != nil {
			return nil, err
		}
		return NewOto(fallback), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q (supported: %v)", backend, Backends)
	}
}
