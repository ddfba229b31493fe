package pcm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInt16(t *testing.T) {
	got := Decode[int16]([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80})
	assert.Equal(t, []int16{1, -1, math.MinInt16}, got)
}

func TestDecodeDropsTrailingBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  int
	}{
		{"empty", nil, 0},
		{"shorter than one element", []byte{0x01}, 0},
		{"one element plus one byte", []byte{0x01, 0x02, 0x03}, 1},
		{"exact", []byte{0x01, 0x02, 0x03, 0x04}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Decode[uint16](tt.input), tt.want)
		})
	}
}

func TestDecodeWiderTypes(t *testing.T) {
	b := []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x80, 0xbf}

	f := Decode[float32](b)
	require.Len(t, f, 2)
	assert.Equal(t, float32(1), f[0])
	assert.Equal(t, float32(-1), f[1])

	u := Decode[uint32](b)
	require.Len(t, u, 2)
	assert.Equal(t, uint32(0x3f800000), u[0])

	i := Decode[int64](b)
	require.Len(t, i, 1)
	assert.Equal(t, int64(-0x407fffffc0800000), i[0])

	assert.Equal(t, []int8{0, 0, -128, 63}, Decode[int8](b[:4]))
	assert.Equal(t, b, Decode[uint8](b))
	assert.Empty(t, Decode[float64](b[:7]))
}
