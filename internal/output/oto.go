package output

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/dewi-tim/audium/internal/pcm"
)

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoCfg  Config
	otoErr  error
)

// Oto drives the platform mixer through oto. oto cannot report the device's
// native format, so the stream plays at the configuration given to NewOto.
type Oto struct {
	cfg Config
}

// NewOto creates an oto driver that plays at cfg.
func NewOto(cfg Config) *Oto {
	return &Oto{cfg: cfg}
}

func (*Oto) Name() string { return BackendOto }

// Open creates the process-wide oto context on first use.
func (o *Oto) Open() (Device, error) {
	otoOnce.Do(func() {
		format, err := toOtoFormat(o.cfg.Format)
		if err != nil {
			otoErr = err
			return
		}

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   o.cfg.SampleRate,
			ChannelCount: o.cfg.Channels,
			Format:       format,
		})
		if err != nil {
			otoErr = fmt.Errorf("%w: create oto context: %w", ErrNoDevice, err)
			return
		}
		<-ready

		otoCtx = ctx
		otoCfg = o.cfg
	})
	if otoErr != nil {
		return nil, otoErr
	}

	if o.cfg != otoCfg {
		log.Printf("oto context already running at %s, ignoring requested %s", otoCfg, o.cfg)
	}
	return &otoDevice{ctx: otoCtx, cfg: otoCfg}, nil
}

type otoDevice struct {
	ctx *oto.Context
	cfg Config
}

func (d *otoDevice) Config() (Config, error) {
	return d.cfg, nil
}

func (d *otoDevice) Build(cfg Config, fill FillFunc) (Stream, error) {
	if cfg != d.cfg {
		return nil, fmt.Errorf("%w: context plays %s, stream asked for %s", ErrUnsupportedFormat, d.cfg, cfg)
	}
	return &otoStream{player: d.ctx.NewPlayer(fillReader(fill))}, nil
}

// Close is a no-op: the context lives for the rest of the process.
func (d *otoDevice) Close() error {
	return nil
}

// fillReader adapts a FillFunc to the io.Reader oto pulls from. The stream
// never ends; past the last sample the fill function writes silence.
type fillReader FillFunc

func (f fillReader) Read(p []byte) (int, error) {
	f(p)
	return len(p), nil
}

// Seek lets oto drop its read-ahead buffer. The position itself belongs to
// the caller of the fill function, so nothing moves here.
func (f fillReader) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Play() error {
	s.player.Play()
	return s.player.Err()
}

func (s *otoStream) Pause() error {
	s.player.Pause()
	return s.player.Err()
}

// Flush discards the samples oto has buffered ahead of playback.
func (s *otoStream) Flush() error {
	_, err := s.player.Seek(0, io.SeekStart)
	return err
}

func (s *otoStream) Close() error {
	return s.player.Close()
}

func toOtoFormat(f pcm.Format) (oto.Format, error) {
	switch f {
	case pcm.FormatU8:
		return oto.FormatUnsignedInt8, nil
	case pcm.FormatS16:
		return oto.FormatSignedInt16LE, nil
	case pcm.FormatF32:
		return oto.FormatFloat32LE, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
