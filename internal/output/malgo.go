package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/dewi-tim/audium/internal/pcm"
)

// Malgo drives miniaudio through malgo. The device is initialised with
// format, channels and rate left at zero so miniaudio picks the native
// values, which Config then reports.
type Malgo struct{}

// NewMalgo creates a malgo driver.
func NewMalgo() *Malgo {
	return &Malgo{}
}

func (*Malgo) Name() string { return BackendMalgo }

// Open initialises a miniaudio context and checks that a playback device
// exists.
func (*Malgo) Open() (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: initialize malgo context: %w", ErrNoDevice, err)
	}

	devices, err := ctx.Devices(malgo.Playback)
	if err != nil || len(devices) == 0 {
		freeContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
		}
		return nil, ErrNoDevice
	}

	return &malgoDevice{ctx: ctx}, nil
}

func freeContext(ctx *malgo.AllocatedContext) {
	_ = ctx.Uninit()
	ctx.Free()
}

type malgoDevice struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	cfg    Config
	fill   atomic.Pointer[FillFunc]
}

// Config initialises the miniaudio device on first use and reports the
// format it negotiated.
func (d *malgoDevice) Config() (Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.initLocked()
}

func (d *malgoDevice) initLocked() (Config, error) {
	if d.ctx == nil {
		return Config{}, ErrClosed
	}
	if d.device != nil {
		return d.cfg, nil
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		if fill := d.fill.Load(); fill != nil {
			(*fill)(pOutputSample)
			return
		}
		clear(pOutputSample)
	}

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: initialize playback device: %w", ErrConfig, err)
	}

	format, err := fromMalgoFormat(device.PlaybackFormat())
	if err != nil {
		device.Uninit()
		return Config{}, err
	}

	d.device = device
	d.cfg = Config{
		SampleRate: int(device.SampleRate()),
		Channels:   int(device.PlaybackChannels()),
		Format:     format,
	}
	return d.cfg, nil
}

// Build binds fill to the device. Only the native configuration can be
// built; miniaudio converts nothing on our behalf.
func (d *malgoDevice) Build(cfg Config, fill FillFunc) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	native, err := d.initLocked()
	if err != nil {
		return nil, err
	}
	if cfg != native {
		return nil, fmt.Errorf("%w: device plays %s, stream asked for %s", ErrUnsupportedFormat, native, cfg)
	}

	d.fill.Store(&fill)
	return &malgoStream{dev: d}, nil
}

func (d *malgoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Uninit()
		d.device = nil
	}
	if d.ctx != nil {
		freeContext(d.ctx)
		d.ctx = nil
	}
	return nil
}

type malgoStream struct {
	dev *malgoDevice
}

func (s *malgoStream) Play() error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	if s.dev.device == nil {
		return ErrClosed
	}
	if s.dev.device.IsStarted() {
		return nil
	}
	return s.dev.device.Start()
}

func (s *malgoStream) Pause() error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	if s.dev.device == nil {
		return ErrClosed
	}
	if !s.dev.device.IsStarted() {
		return nil
	}
	return s.dev.device.Stop()
}

// Close stops the device and detaches the fill callback. The device itself
// is released by malgoDevice.Close.
func (s *malgoStream) Close() error {
	s.dev.mu.Lock()
	defer s.dev.mu.Unlock()

	var err error
	if s.dev.device != nil && s.dev.device.IsStarted() {
		err = s.dev.device.Stop()
	}
	s.dev.fill.Store(nil)
	return err
}

func fromMalgoFormat(f malgo.FormatType) (pcm.Format, error) {
	switch f {
	case malgo.FormatU8:
		return pcm.FormatU8, nil
	case malgo.FormatS16:
		return pcm.FormatS16, nil
	case malgo.FormatF32:
		return pcm.FormatF32, nil
	default:
		return pcm.FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, malgoFormatName(f))
	}
}

func malgoFormatName(f malgo.FormatType) string {
	switch f {
	case malgo.FormatU8:
		return "u8"
	case malgo.FormatS16:
		return "s16"
	case malgo.FormatS24:
		return "s24"
	case malgo.FormatS32:
		return "s32"
	case malgo.FormatF32:
		return "f32"
	default:
		return "unknown"
	}
}
