package player

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/output/outputtest"
	"github.com/dewi-tim/audium/internal/pcm"
)

var stereoS16 = output.Config{SampleRate: 8000, Channels: 2, Format: pcm.FormatS16}

func ramp(n int) pcm.Buffer {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(i + 1)
	}
	return pcm.S16Buffer(s)
}

func s16At(b []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(b[i*2:]))
}

func TestEngineProgressStartsAtZero(t *testing.T) {
	drv := outputtest.New(stereoS16)

	e, err := Open(drv, ramp(100))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 0.0, e.Progress())
	assert.True(t, e.IsPlaying())
	assert.True(t, drv.Last().Playing())
}

func TestEngineFillAdvancesCursor(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, ramp(100))
	require.NoError(t, err)
	defer e.Close()

	out := drv.Last().Pump(10)
	require.Len(t, out, 20)
	assert.Equal(t, int16(1), s16At(out, 0))
	assert.Equal(t, int16(10), s16At(out, 9))

	out = drv.Last().Pump(10)
	assert.Equal(t, int16(11), s16At(out, 0))
	assert.InDelta(t, 0.2, e.Progress(), 1e-9)
}

func TestEngineSilenceAfterEnd(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, ramp(4))
	require.NoError(t, err)
	defer e.Close()

	out := drv.Last().Pump(6)
	assert.Equal(t, int16(4), s16At(out, 3))
	assert.Equal(t, int16(0), s16At(out, 4))
	assert.Equal(t, int16(0), s16At(out, 5))

	out = drv.Last().Pump(8)
	assert.Equal(t, make([]byte, 16), out)

	assert.True(t, e.Finished())
	assert.Greater(t, e.Progress(), 1.0)
	assert.Equal(t, e.Duration(), e.Position())
}

func TestEngineConvertsToDeviceFormat(t *testing.T) {
	drv := outputtest.New(output.Config{SampleRate: 8000, Channels: 1, Format: pcm.FormatU8})
	e, err := Open(drv, pcm.S16Buffer([]int16{0, -32768, 32767}))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []byte{128, 0, 255, 128}, drv.Last().Pump(4))
}

func TestEngineTrailingPartialSlot(t *testing.T) {
	drv := outputtest.New(output.Config{SampleRate: 8000, Channels: 1, Format: pcm.FormatF32})
	e, err := Open(drv, pcm.F32Buffer([]float32{1, 1, 1}))
	require.NoError(t, err)
	defer e.Close()

	out := drv.Last().PumpBytes(6)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f, 0, 0}, out)
	// Only the whole slot was reserved.
	assert.InDelta(t, 1.0/3, e.Progress(), 1e-9)
}

func TestEnginePauseFreezesCursor(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, ramp(100))
	require.NoError(t, err)
	defer e.Close()

	drv.Last().Pump(10)
	require.NoError(t, e.Pause())
	assert.False(t, e.IsPlaying())

	assert.Nil(t, drv.Last().Pump(10))
	assert.InDelta(t, 0.1, e.Progress(), 1e-9)

	require.NoError(t, e.Play())
	assert.Equal(t, int16(11), s16At(drv.Last().Pump(1), 0))
}

func TestEngineRestart(t *testing.T) {
	t.Run("while playing", func(t *testing.T) {
		drv := outputtest.New(stereoS16)
		e, err := Open(drv, ramp(100))
		require.NoError(t, err)
		defer e.Close()

		drv.Last().Pump(50)
		require.NoError(t, e.Restart())

		assert.Equal(t, 0.0, e.Progress())
		assert.True(t, e.IsPlaying())
		assert.Equal(t, int16(1), s16At(drv.Last().Pump(1), 0))
		assert.Equal(t, []string{"open", "build 1", "play 1", "pause 1", "flush 1", "play 1"}, drv.Events())
	})

	t.Run("while paused", func(t *testing.T) {
		drv := outputtest.New(stereoS16)
		e, err := Open(drv, ramp(100))
		require.NoError(t, err)
		defer e.Close()

		drv.Last().Pump(50)
		require.NoError(t, e.Pause())
		require.NoError(t, e.Restart())

		assert.Equal(t, 0.0, e.Progress())
		assert.False(t, e.IsPlaying())
		assert.Equal(t, []string{"open", "build 1", "play 1", "pause 1", "flush 1"}, drv.Events())
	})

	t.Run("flush failure", func(t *testing.T) {
		drv := outputtest.New(stereoS16)
		e, err := Open(drv, ramp(100))
		require.NoError(t, err)
		defer e.Close()

		drv.Last().Pump(50)
		drv.FlushErr = errors.New("flush rejected")

		err = e.Restart()
		assert.ErrorIs(t, err, ErrStream)
		assert.ErrorIs(t, err, drv.FlushErr)
		assert.Equal(t, 0.0, e.Progress())
	})
}

func TestEngineEmptyBuffer(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, pcm.S16Buffer(nil))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, make([]byte, 8), drv.Last().Pump(4))
	assert.Equal(t, 0.0, e.Progress())
	assert.Equal(t, time.Duration(0), e.Duration())
	assert.True(t, e.Finished())
}

func TestEngineOpenErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(d *outputtest.Driver)
		want  []error
	}{
		{
			name:  "no device",
			setup: func(d *outputtest.Driver) { d.OpenErr = output.ErrNoDevice },
			want:  []error{ErrStream, output.ErrNoDevice},
		},
		{
			name:  "config query fails",
			setup: func(d *outputtest.Driver) { d.ConfigErr = boom },
			want:  []error{ErrStream, output.ErrConfig, boom},
		},
		{
			name:  "unsupported native format",
			setup: func(d *outputtest.Driver) { d.Cfg.Format = pcm.FormatUnknown },
			want:  []error{ErrStream, output.ErrUnsupportedFormat},
		},
		{
			name:  "build fails",
			setup: func(d *outputtest.Driver) { d.BuildErr = boom },
			want:  []error{ErrStream, boom},
		},
		{
			name:  "play fails",
			setup: func(d *outputtest.Driver) { d.PlayErr = boom },
			want:  []error{ErrStream, boom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := outputtest.New(stereoS16)
			tt.setup(drv)

			e, err := Open(drv, ramp(10))
			require.Error(t, err)
			assert.Nil(t, e)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}

			var se *StreamError
			assert.ErrorAs(t, err, &se)
			assert.Zero(t, drv.OpenDevices(), "device leaked")
		})
	}
}

func TestEngineClose(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, ramp(10))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.Equal(t, 1, drv.Last().Closes())
	assert.Zero(t, drv.OpenDevices())
	assert.ErrorIs(t, e.Play(), ErrStream)
	assert.ErrorIs(t, e.Restart(), ErrStream)
}

func TestEngineConcurrentFillAndRestart(t *testing.T) {
	drv := outputtest.New(stereoS16)
	e, err := Open(drv, ramp(1 << 12))
	require.NoError(t, err)
	defer e.Close()

	stream := drv.Last()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		out := make([]byte, 64)
		for range 500 {
			e.fill(out)
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			_ = e.Restart()
			_ = e.Progress()
		}
	}()
	wg.Wait()

	require.NoError(t, e.Restart())
	assert.Equal(t, 0.0, e.Progress())
	assert.True(t, stream.Playing())
}
