// Package outputtest provides an in-memory output.Driver for tests.
//
// Streams never run on their own: tests call Stream.Pump to invoke the fill
// callback synchronously, exactly as an audio thread would.
package outputtest

import (
	"fmt"
	"sync"

	"github.com/dewi-tim/audium/internal/output"
)

// Driver is a fake output.Driver. The exported error fields are consulted on
// every call, so tests can inject failures at any point.
type Driver struct {
	mu sync.Mutex

	Cfg output.Config

	OpenErr   error
	ConfigErr error
	BuildErr  error
	PlayErr   error
	PauseErr  error
	FlushErr  error

	events  []string
	streams []*Stream
	devices int
}

// New returns a driver whose devices report cfg.
func New(cfg output.Config) *Driver {
	return &Driver{Cfg: cfg}
}

func (d *Driver) Name() string { return "fake" }

func (d *Driver) Open() (output.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.devices++
	d.logLocked("open")
	return &device{drv: d, id: d.devices}, nil
}

// Events returns the ordered log of driver calls, e.g. "open", "build 1",
// "play 1", "pause 1", "flush 1", "close 1", "release".
func (d *Driver) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.events...)
}

// Streams returns every stream built so far, oldest first.
func (d *Driver) Streams() []*Stream {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]*Stream(nil), d.streams...)
}

// Last returns the most recently built stream, or nil.
func (d *Driver) Last() *Stream {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.streams) == 0 {
		return nil
	}
	return d.streams[len(d.streams)-1]
}

// OpenDevices returns the number of devices opened and not yet closed.
func (d *Driver) OpenDevices() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.devices - d.countLocked("release")
}

func (d *Driver) logLocked(event string) {
	d.events = append(d.events, event)
}

func (d *Driver) countLocked(event string) int {
	n := 0
	for _, e := range d.events {
		if e == event {
			n++
		}
	}
	return n
}

type device struct {
	drv    *Driver
	id     int
	closed bool
}

func (dv *device) Config() (output.Config, error) {
	dv.drv.mu.Lock()
	defer dv.drv.mu.Unlock()

	if dv.drv.ConfigErr != nil {
		return output.Config{}, dv.drv.ConfigErr
	}
	return dv.drv.Cfg, nil
}

func (dv *device) Build(cfg output.Config, fill output.FillFunc) (output.Stream, error) {
	dv.drv.mu.Lock()
	defer dv.drv.mu.Unlock()

	if dv.drv.BuildErr != nil {
		return nil, dv.drv.BuildErr
	}
	s := &Stream{drv: dv.drv, id: len(dv.drv.streams) + 1, cfg: cfg, fill: fill}
	dv.drv.streams = append(dv.drv.streams, s)
	dv.drv.logLocked(fmt.Sprintf("build %d", s.id))
	return s, nil
}

func (dv *device) Close() error {
	dv.drv.mu.Lock()
	defer dv.drv.mu.Unlock()

	if !dv.closed {
		dv.closed = true
		dv.drv.logLocked("release")
	}
	return nil
}

// Stream is a fake output.Stream.
type Stream struct {
	drv  *Driver
	id   int
	cfg  output.Config
	fill output.FillFunc

	playing bool
	closed  bool
	closes  int
}

// ID is the 1-based build order of the stream.
func (s *Stream) ID() int { return s.id }

func (s *Stream) Play() error {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	if s.closed {
		return output.ErrClosed
	}
	if s.drv.PlayErr != nil {
		return s.drv.PlayErr
	}
	s.playing = true
	s.drv.logLocked(fmt.Sprintf("play %d", s.id))
	return nil
}

func (s *Stream) Pause() error {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	if s.closed {
		return output.ErrClosed
	}
	if s.drv.PauseErr != nil {
		return s.drv.PauseErr
	}
	s.playing = false
	s.drv.logLocked(fmt.Sprintf("pause %d", s.id))
	return nil
}

// Flush records a "flush N" event, standing in for a backend that reads
// ahead of playback.
func (s *Stream) Flush() error {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	if s.closed {
		return output.ErrClosed
	}
	if s.drv.FlushErr != nil {
		return s.drv.FlushErr
	}
	s.drv.logLocked(fmt.Sprintf("flush %d", s.id))
	return nil
}

func (s *Stream) Close() error {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	s.closes++
	if !s.closed {
		s.closed = true
		s.playing = false
		s.drv.logLocked(fmt.Sprintf("close %d", s.id))
	}
	return nil
}

// Playing reports whether the stream is delivering.
func (s *Stream) Playing() bool {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	return s.playing
}

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	return s.closed
}

// Closes returns how many times Close has been called.
func (s *Stream) Closes() int {
	s.drv.mu.Lock()
	defer s.drv.mu.Unlock()

	return s.closes
}

// Pump runs the fill callback for a block of n samples and returns the
// bytes it wrote. A paused or closed stream is not pulled from and Pump
// returns nil, as a real device would.
func (s *Stream) Pump(n int) []byte {
	if !s.Playing() {
		return nil
	}
	out := make([]byte, n*s.cfg.Format.Width())
	s.fill(out)
	return out
}

// PumpBytes runs the fill callback over a block of exactly n bytes, even
// when n is not a whole number of samples.
func (s *Stream) PumpBytes(n int) []byte {
	if !s.Playing() {
		return nil
	}
	out := make([]byte, n)
	s.fill(out)
	return out
}
