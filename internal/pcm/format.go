// Package pcm provides the sample representations used for playback: the
// little-endian byte decoder, the closed set of sample formats, and the
// per-format conversions run inside the realtime output callback.
package pcm

import (
	"fmt"
	"strings"
)

// Format identifies a sample representation.
type Format int

const (
	// FormatUnknown is the zero value and is never playable.
	FormatUnknown Format = iota
	// FormatU8 is 8-bit unsigned PCM, silence at 128.
	FormatU8
	// FormatS16 is 16-bit signed little-endian PCM.
	FormatS16
	// FormatF32 is 32-bit IEEE float little-endian PCM in [-1, 1].
	FormatF32
)

// String returns the short name used in configuration and the UI.
func (f Format) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatF32:
		return "f32"
	default:
		return "unknown"
	}
}

// Width returns the number of bytes one sample occupies, or 0 for an
// unknown format.
func (f Format) Width() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatF32:
		return 4
	default:
		return 0
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f.Width() != 0
}

// ParseFormat parses the names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u8":
		return FormatU8, nil
	case "s16":
		return FormatS16, nil
	case "f32":
		return FormatF32, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown sample format %q (supported: u8, s16, f32)", s)
	}
}
