// Command wavtone writes a 16-bit PCM sine tone to a WAV file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dewi-tim/audium/internal/wav"
)

var (
	outPath  = flag.String("o", "", "Output WAV file (required)")
	freq     = flag.Float64("freq", 440, "Tone frequency in Hz")
	seconds  = flag.Float64("seconds", 2, "Tone length in seconds")
	rate     = flag.Int("rate", 44100, "Sample rate in Hz")
	channels = flag.Int("channels", 2, "Channel count")
)

func main() {
	flag.Parse()

	if *outPath == "" || *freq <= 0 || *seconds <= 0 || *rate <= 0 || *channels <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := wav.ToneOptions{
		Frequency:  *freq,
		Duration:   time.Duration(*seconds * float64(time.Second)),
		SampleRate: *rate,
		Channels:   *channels,
	}
	if err := wav.WriteToneFile(*outPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "wavtone: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %.0f Hz, %s, %d Hz, %d ch\n", *outPath, *freq, opts.Duration, *rate, *channels)
}
