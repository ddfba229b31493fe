package wav

import (
	"fmt"
	"io"
	"os"
	"time"

	gowav "github.com/go-audio/wav"
)

// wavFormatFloat is the WAVE_FORMAT_IEEE_FLOAT tag.
const wavFormatFloat = 3

// Info describes the fmt subchunk of a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool
	Duration   time.Duration
}

// String formats the info for the now-playing panel, e.g. "44100 Hz · 2 ch · 16-bit".
func (i Info) String() string {
	kind := "bit"
	if i.Float {
		kind = "bit float"
	}
	return fmt.Sprintf("%d Hz · %d ch · %d-%s", i.SampleRate, i.Channels, i.BitDepth, kind)
}

// Probe reads the fmt and data chunk headers of r.
func Probe(r io.ReadSeeker) (Info, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		return Info{}, fmt.Errorf("%w: missing or malformed fmt chunk", ErrFormat)
	}

	dur, err := d.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("read duration: %w", err)
	}

	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Float:      d.WavAudioFormat == wavFormatFloat,
		Duration:   dur,
	}, nil
}

// ProbeFile opens path and probes it.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	return Probe(f)
}
