// Package wav reads and writes RIFF/WAVE files.
//
// Decode is the playback path. It checks only the RIFF magic and treats
// everything after the canonical 44-byte header as interleaved 16-bit signed
// little-endian samples. The fmt subchunk is not consulted, so files with a
// different layout or sample format decode to noise rather than failing.
//
// Probe reads the fmt subchunk with github.com/go-audio/wav for display
// purposes. Its result never changes how a file is decoded.
//
// WriteTone produces canonical 16-bit PCM files that Decode accepts:
//
//	f, _ := os.Create("a440.wav")
//	defer f.Close()
//	err := wav.WriteTone(f, wav.ToneOptions{Frequency: 440, Duration: 2 * time.Second})
package wav
