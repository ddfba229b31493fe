package wav

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

const (
	toneBitDepth = 16
	pcmFormatTag = 1
)

// ToneOptions configures WriteTone. Zero fields take the defaults below.
type ToneOptions struct {
	Frequency  float64       // Hz, default 440
	Duration   time.Duration // default 1s
	SampleRate int           // default 44100
	Channels   int           // default 2
	Amplitude  float64       // 0..1, default 0.5
}

func (o *ToneOptions) setDefaults() {
	if o.Frequency == 0 {
		o.Frequency = 440
	}
	if o.Duration == 0 {
		o.Duration = time.Second
	}
	if o.SampleRate == 0 {
		o.SampleRate = 44100
	}
	if o.Channels == 0 {
		o.Channels = 2
	}
	if o.Amplitude == 0 {
		o.Amplitude = 0.5
	}
}

// WriteTone writes a sine tone as a canonical 16-bit PCM WAV file.
func WriteTone(w io.WriteSeeker, opts ToneOptions) error {
	opts.setDefaults()
	if opts.Frequency < 0 || opts.Duration < 0 || opts.SampleRate < 0 || opts.Channels < 0 {
		return errors.New("tone options must not be negative")
	}
	amp := math.Min(opts.Amplitude, 1) * math.MaxInt16

	frames := int(opts.Duration.Seconds() * float64(opts.SampleRate))
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: opts.Channels,
			SampleRate:  opts.SampleRate,
		},
		Data:           make([]int, frames*opts.Channels),
		SourceBitDepth: toneBitDepth,
	}

	step := 2 * math.Pi * opts.Frequency / float64(opts.SampleRate)
	for i := range frames {
		v := int(amp * math.Sin(step*float64(i)))
		for c := range opts.Channels {
			buf.Data[i*opts.Channels+c] = v
		}
	}

	enc := gowav.NewEncoder(w, opts.SampleRate, toneBitDepth, opts.Channels, pcmFormatTag)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}
	return nil
}

// WriteToneFile creates path and writes a tone into it.
func WriteToneFile(path string, opts ToneOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteTone(f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
