package pcm

import (
	"encoding/binary"
	"math"
)

// Equilibrium values: the sample that produces no displacement.
const (
	SilenceU8  uint8   = 128
	SilenceS16 int16   = 0
	SilenceF32 float32 = 0
)

// U8ToS16 widens an unsigned 8-bit sample.
func U8ToS16(v uint8) int16 {
	return (int16(v) - 128) << 8
}

// S16ToU8 keeps the high byte of v and re-centres it on 128.
func S16ToU8(v int16) uint8 {
	return uint8((v >> 8) + 128)
}

// S16ToF32 scales v into [-1, 1).
func S16ToF32(v int16) float32 {
	return float32(v) / 32768
}

// F32ToS16 clamps v to [-1, 1] and scales it by 32767. NaN maps to silence.
func F32ToS16(v float32) int16 {
	if math.IsNaN(float64(v)) {
		return SilenceS16
	}
	return int16(clampUnit(v) * 32767)
}

// U8ToF32 converts through the signed 16-bit representation.
func U8ToF32(v uint8) float32 {
	return S16ToF32(U8ToS16(v))
}

// F32ToU8 converts through the signed 16-bit representation.
func F32ToU8(v float32) uint8 {
	return S16ToU8(F32ToS16(v))
}

func clampUnit(v float32) float32 {
	return max(-1, min(1, v))
}

// Silence writes the equilibrium value of f into every byte of dst. Zero is
// silence for S16 and F32, so any trailing partial slot is zeroed as well.
func Silence(dst []byte, f Format) {
	if f == FormatU8 {
		for i := range dst {
			dst[i] = SilenceU8
		}
		return
	}
	clear(dst)
}

// Fill writes samples src[start:] into dst in device format f, one slot of
// f.Width() bytes per sample. Slots past the end of src, and any trailing
// bytes too short for a whole slot, are filled with silence.
//
// Fill is called from the realtime audio thread: it does not allocate, block
// or take locks. The source format is switched on once per call.
func Fill(dst []byte, f Format, src Buffer, start uint64) {
	w := f.Width()
	if w == 0 {
		clear(dst)
		return
	}

	slots := len(dst) / w
	avail := 0
	if total := uint64(src.Len()); start < total {
		avail = int(min(total-start, uint64(slots)))
	}
	off := int(start)

	switch f {
	case FormatU8:
		putU8(dst[:avail], src, off)
	case FormatS16:
		putS16(dst[:avail*2], src, off)
	case FormatF32:
		putF32(dst[:avail*4], src, off)
	}
	Silence(dst[avail*w:], f)
}

func putU8(dst []byte, src Buffer, off int) {
	if len(dst) == 0 {
		return
	}
	switch src.format {
	case FormatU8:
		copy(dst, src.u8[off:])
	case FormatS16:
		for i, v := range src.s16[off : off+len(dst)] {
			dst[i] = S16ToU8(v)
		}
	case FormatF32:
		for i, v := range src.f32[off : off+len(dst)] {
			dst[i] = F32ToU8(v)
		}
	}
}

func putS16(dst []byte, src Buffer, off int) {
	n := len(dst) / 2
	if n == 0 {
		return
	}
	switch src.format {
	case FormatU8:
		for i, v := range src.u8[off : off+n] {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(U8ToS16(v)))
		}
	case FormatS16:
		for i, v := range src.s16[off : off+n] {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(v))
		}
	case FormatF32:
		for i, v := range src.f32[off : off+n] {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(F32ToS16(v)))
		}
	}
}

func putF32(dst []byte, src Buffer, off int) {
	n := len(dst) / 4
	if n == 0 {
		return
	}
	switch src.format {
	case FormatU8:
		for i, v := range src.u8[off : off+n] {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(U8ToF32(v)))
		}
	case FormatS16:
		for i, v := range src.s16[off : off+n] {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(S16ToF32(v)))
		}
	case FormatF32:
		for i, v := range src.f32[off : off+n] {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	}
}
