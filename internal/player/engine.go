package player

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/pcm"
)

// Engine plays one sample buffer on one output stream.
//
// The audio thread and the control path share only the cursor. The control
// mutex serialises Play, Pause, Restart and Close and is never taken by the
// fill callback.
type Engine struct {
	buf    pcm.Buffer
	cfg    output.Config
	cursor atomic.Uint64

	mu      sync.Mutex
	device  output.Device
	stream  output.Stream
	playing bool
	closed  bool
}

// Open acquires the default device of drv, builds a stream at the device's
// native configuration and starts playing buf from the beginning.
func Open(drv output.Driver, buf pcm.Buffer) (*Engine, error) {
	e, err := Prepare(drv, buf)
	if err != nil {
		return nil, err
	}
	if err := e.Play(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Prepare is Open without starting delivery.
func Prepare(drv output.Driver, buf pcm.Buffer) (*Engine, error) {
	device, err := drv.Open()
	if err != nil {
		return nil, streamError("open output device", err)
	}

	cfg, err := device.Config()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		device.Close()
		if !errors.Is(err, output.ErrConfig) && !errors.Is(err, output.ErrUnsupportedFormat) {
			err = fmt.Errorf("%w: %w", output.ErrConfig, err)
		}
		return nil, streamError("query output configuration", err)
	}

	e := &Engine{
		buf:    buf,
		cfg:    cfg,
		device: device,
	}

	stream, err := device.Build(cfg, e.fill)
	if err != nil {
		device.Close()
		return nil, streamError("build output stream", err)
	}
	e.stream = stream

	return e, nil
}

// fill runs on the audio thread. One atomic add reserves the block's slots,
// so concurrent callers can never hand out the same index twice.
func (e *Engine) fill(out []byte) {
	defer func() {
		if recover() != nil {
			pcm.Silence(out, e.cfg.Format)
		}
	}()

	n := uint64(len(out) / e.cfg.Format.Width())
	end := e.cursor.Add(n)
	pcm.Fill(out, e.cfg.Format, e.buf, end-n)
}

// Play resumes delivery.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playLocked()
}

// Pause suspends delivery. The cursor does not move while paused.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pauseLocked()
}

// Restart moves playback back to the first sample. A playing engine keeps
// playing; a paused one stays paused. Streams that buffer ahead are flushed
// before delivery resumes.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return streamError("restart", errEngineClosed)
	}

	wasPlaying := e.playing
	if wasPlaying {
		if err := e.pauseLocked(); err != nil {
			return err
		}
	}

	e.cursor.Store(0)

	if f, ok := e.stream.(output.Flusher); ok {
		if err := f.Flush(); err != nil {
			return streamError("flush output stream", err)
		}
	}

	if wasPlaying {
		return e.playLocked()
	}
	return nil
}

func (e *Engine) playLocked() error {
	if e.closed {
		return streamError("play", errEngineClosed)
	}
	if err := e.stream.Play(); err != nil {
		return streamError("start output stream", err)
	}
	e.playing = true
	return nil
}

func (e *Engine) pauseLocked() error {
	if e.closed {
		return streamError("pause", errEngineClosed)
	}
	if err := e.stream.Pause(); err != nil {
		return streamError("pause output stream", err)
	}
	e.playing = false
	return nil
}

// IsPlaying reports whether the stream is delivering.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playing
}

// Progress returns cursor/length. It is 0 for an empty buffer and may exceed
// 1 once the cursor has run past the end.
func (e *Engine) Progress() float64 {
	total := e.buf.Len()
	if total == 0 {
		return 0
	}
	return float64(e.cursor.Load()) / float64(total)
}

// Finished reports whether every sample has been handed to the device.
func (e *Engine) Finished() bool {
	return e.cursor.Load() >= uint64(e.buf.Len())
}

// Position returns the playback position, capped at Duration.
func (e *Engine) Position() time.Duration {
	return e.cfg.Duration(min(e.cursor.Load(), uint64(e.buf.Len())))
}

// Duration returns how long the buffer plays for at the device
// configuration.
func (e *Engine) Duration() time.Duration {
	return e.cfg.Duration(uint64(e.buf.Len()))
}

// Config returns the stream configuration.
func (e *Engine) Config() output.Config {
	return e.cfg
}

// Len returns the number of samples in the buffer.
func (e *Engine) Len() int {
	return e.buf.Len()
}

// Close stops the stream and releases the device. Subsequent calls are
// no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.playing = false

	var errs []error
	if err := e.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}
	if err := e.device.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close device: %w", err))
	}
	return errors.Join(errs...)
}
