package pcm

import (
	"encoding/binary"
	"math"
)

// Sample is the set of fixed-width numeric types Decode understands.
type Sample interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// Decode interprets b as a little-endian sequence of T.
//
// The result has len(b)/w elements where w is the byte width of T. Trailing
// bytes that do not fill a whole element are dropped; there is no error path.
func Decode[T Sample](b []byte) []T {
	var zero T
	width := binary.Size(zero)
	out := make([]T, len(b)/width)

	switch dst := any(out).(type) {
	case []uint8:
		copy(dst, b)
	case []int8:
		for i := range dst {
			dst[i] = int8(b[i])
		}
	case []uint16:
		for i := range dst {
			dst[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
	case []int16:
		for i := range dst {
			dst[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
		}
	case []uint32:
		for i := range dst {
			dst[i] = binary.LittleEndian.Uint32(b[i*4:])
		}
	case []int32:
		for i := range dst {
			dst[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
		}
	case []uint64:
		for i := range dst {
			dst[i] = binary.LittleEndian.Uint64(b[i*8:])
		}
	case []int64:
		for i := range dst {
			dst[i] = int64(binary.LittleEndian.Uint64(b[i*8:]))
		}
	case []float32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
	case []float64:
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		}
	}

	return out
}
