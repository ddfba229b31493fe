package wav

import (
	"bytes"

	"github.com/dewi-tim/audium/internal/pcm"
)

// HeaderSize is the length of a canonical RIFF/WAVE header with a 16-byte
// fmt chunk directly followed by the data chunk header.
const HeaderSize = 44

var riffMagic = []byte("RIFF")

// Decode returns the sample payload of a WAV file held in memory.
func Decode(b []byte) (pcm.Buffer, error) {
	if len(b) < HeaderSize {
		return pcm.Buffer{}, ErrHeaderTooShort
	}
	if !bytes.Equal(b[:4], riffMagic) {
		return pcm.Buffer{}, ErrBadMagic
	}

	return pcm.S16Buffer(pcm.Decode[int16](b[HeaderSize:])), nil
}
