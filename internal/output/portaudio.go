//go:build portaudio

package output

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gordonklaus/portaudio"

	"github.com/dewi-tim/audium/internal/pcm"
)

// PortAudio drives the default PortAudio output device. Streams always
// carry 16-bit samples; PortAudio converts to the device format itself.
type PortAudio struct{}

// NewPortAudio creates a PortAudio driver.
func NewPortAudio() Driver {
	return &PortAudio{}
}

func (*PortAudio) Name() string { return BackendPortAudio }

func (*PortAudio) Open() (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: initialize portaudio: %w", ErrNoDevice, err)
	}

	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	return &paDevice{info: info}, nil
}

type paDevice struct {
	mu     sync.Mutex
	info   *portaudio.DeviceInfo
	closed bool
}

func (d *paDevice) Config() (Config, error) {
	if d.info.MaxOutputChannels < 1 || d.info.DefaultSampleRate <= 0 {
		return Config{}, fmt.Errorf("%w: device %q reports no output channels", ErrConfig, d.info.Name)
	}
	return Config{
		SampleRate: int(d.info.DefaultSampleRate),
		Channels:   min(d.info.MaxOutputChannels, 2),
		Format:     pcm.FormatS16,
	}, nil
}

func (d *paDevice) Build(cfg Config, fill FillFunc) (Stream, error) {
	if cfg.Format != pcm.FormatS16 {
		return nil, fmt.Errorf("%w: portaudio streams carry s16, got %s", ErrUnsupportedFormat, cfg.Format)
	}

	// int16 samples are viewed as little-endian bytes; every supported host
	// is little-endian.
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), 0, func(out []int16) {
		fill(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(out))), len(out)*2))
	})
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	return &paStream{stream: stream}, nil
}

func (d *paDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return portaudio.Terminate()
}

type paStream struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	running bool
}

func (s *paStream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.stream.Start(); err != nil {
		return err
	}
	s.running = true
	return nil
}

func (s *paStream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	if err := s.stream.Stop(); err != nil {
		return err
	}
	s.running = false
	return nil
}

func (s *paStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.stream.Stop()
		s.running = false
	}
	return s.stream.Close()
}
