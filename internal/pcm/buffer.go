package pcm

// Buffer is a fixed-length sample sequence in exactly one Format.
//
// A Buffer is never modified after construction, so it can be read from the
// audio thread and the control thread without synchronization. The slice
// passed to a constructor must not be written to afterwards.
type Buffer struct {
	format Format
	u8     []uint8
	s16    []int16
	f32    []float32
}

// U8Buffer wraps 8-bit unsigned samples.
func U8Buffer(samples []uint8) Buffer {
	return Buffer{format: FormatU8, u8: samples}
}

// S16Buffer wraps 16-bit signed samples.
func S16Buffer(samples []int16) Buffer {
	return Buffer{format: FormatS16, s16: samples}
}

// F32Buffer wraps 32-bit float samples.
func F32Buffer(samples []float32) Buffer {
	return Buffer{format: FormatF32, f32: samples}
}

// Format returns the representation of the stored samples.
func (b Buffer) Format() Format {
	return b.format
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	switch b.format {
	case FormatU8:
		return len(b.u8)
	case FormatS16:
		return len(b.s16)
	case FormatF32:
		return len(b.f32)
	default:
		return 0
	}
}

// S16 returns the sample at index i converted to 16-bit signed. Out of range
// indices return silence.
func (b Buffer) S16(i int) int16 {
	if i < 0 || i >= b.Len() {
		return SilenceS16
	}
	switch b.format {
	case FormatU8:
		return U8ToS16(b.u8[i])
	case FormatF32:
		return F32ToS16(b.f32[i])
	default:
		return b.s16[i]
	}
}
