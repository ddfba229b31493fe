package player

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/audium/internal/output/outputtest"
	"github.com/dewi-tim/audium/internal/wav"
)

// writeWAV writes a file with a zeroed 44-byte header and the given
// little-endian payload.
func writeWAV(t *testing.T, name string, payload ...byte) string {
	t.Helper()

	b := append([]byte("RIFF"), make([]byte, wav.HeaderSize-4)...)
	b = append(b, payload...)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func newTestPlayer(t *testing.T) (*AudioPlayer, *outputtest.Driver) {
	t.Helper()

	drv := outputtest.New(stereoS16)
	p := NewAudioPlayer(drv)
	t.Cleanup(func() { p.Close() })
	return p, drv
}

func TestPlayerInitialState(t *testing.T) {
	p, _ := newTestPlayer(t)

	assert.Equal(t, StateWaitingForFile, p.State())
	assert.False(t, p.IsPlaying())
	assert.Equal(t, "Play", p.PauseOrPlayButtonText())
	assert.Equal(t, 0.0, p.Progress())
	assert.Nil(t, p.Track())

	_, ok := p.TrackName()
	assert.False(t, ok)
}

func TestPlayFile(t *testing.T) {
	p, drv := newTestPlayer(t)
	path := writeWAV(t, "song.wav", 1, 0, 2, 0, 3, 0, 4, 0)

	require.NoError(t, p.PlayFile(path))

	assert.Equal(t, StatePlaying, p.State())
	assert.Equal(t, "Pause", p.PauseOrPlayButtonText())
	name, ok := p.TrackName()
	assert.True(t, ok)
	assert.Equal(t, "song", name)
	assert.Equal(t, 0.0, p.Progress())

	track := p.Track()
	require.NotNil(t, track)
	assert.Equal(t, path, track.Path)
	assert.Equal(t, 4, track.Samples)
	assert.Equal(t, stereoS16, track.Output)
	// A zeroed header has no readable fmt chunk.
	assert.Nil(t, track.Info)

	drv.Last().Pump(2)
	assert.InDelta(t, 0.5, p.Progress(), 1e-9)
}

func TestPlayFileWaveExtension(t *testing.T) {
	p, _ := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "take.2.wave", 0, 0)))

	name, _ := p.TrackName()
	assert.Equal(t, "take.2", name)
}

func TestPlayFileProbesHeader(t *testing.T) {
	p, _ := newTestPlayer(t)
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, wav.WriteToneFile(path, wav.ToneOptions{
		Duration:   250 * time.Millisecond,
		SampleRate: 8000,
		Channels:   2,
	}))

	require.NoError(t, p.PlayFile(path))

	track := p.Track()
	require.NotNil(t, track.Info)
	assert.Equal(t, 8000, track.Info.SampleRate)
	assert.Equal(t, 2, track.Info.Channels)
	require.NotNil(t, track.Layout)
	_, ok := track.Layout.Find("data")
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, track.Duration)
}

func TestPlayFileHeaderOnly(t *testing.T) {
	p, _ := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "empty.wav")))

	info := p.Info()
	assert.Equal(t, StatePlaying, info.State)
	assert.Equal(t, 0.0, info.Progress)
	assert.True(t, info.Finished)
}

func TestPlayFileTruncatedChunks(t *testing.T) {
	p, _ := newTestPlayer(t)

	// The RIFF size claims far more data than the file holds.
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, 0xcb94539b)
	b = append(b, "WAVEfmt "...)
	b = binary.LittleEndian.AppendUint32(b, 18)
	b = append(b, make([]byte, wav.HeaderSize-len(b))...)
	b = append(b, 1, 0, 2, 0)

	path := filepath.Join(t.TempDir(), "cut.wav")
	require.NoError(t, os.WriteFile(path, b, 0o644))

	require.NoError(t, p.PlayFile(path))

	track := p.Track()
	require.NotNil(t, track)
	assert.Nil(t, track.Layout)
	assert.Equal(t, 2, track.Samples)
	assert.Equal(t, StatePlaying, p.State())
}

func TestPlayFileErrors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.wav")
	require.NoError(t, os.WriteFile(short, []byte("RIFF"), 0o644))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"mp3", "track.mp3", ErrUnsupportedFileFormat},
		{"no extension", filepath.Join(dir, "README"), ErrUnsupportedFileFormat},
		{"uppercase extension", filepath.Join(dir, "LOUD.WAV"), ErrUnsupportedFileFormat},
		{"hidden file without extension", filepath.Join(dir, ".wav"), ErrUnsupportedFileFormat},
		{"empty path", "", ErrInvalidFileName},
		{"invalid utf-8", filepath.Join(dir, "bad\xff.wav"), ErrInvalidFileName},
		{"missing file", filepath.Join(dir, "missing.wav"), ErrIO},
		{"too short", short, wav.ErrHeaderTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, drv := newTestPlayer(t)

			err := p.PlayFile(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			assert.Equal(t, StateWaitingForFile, p.State())
			assert.Empty(t, drv.Events(), "no device may be touched")
		})
	}
}

func TestPlayFileMissingWrapsPathError(t *testing.T) {
	p, _ := newTestPlayer(t)

	err := p.PlayFile(filepath.Join(t.TempDir(), "gone.wav"))

	var pathErr *os.PathError
	assert.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlayFileFailureKeepsCurrentTrack(t *testing.T) {
	p, drv := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "first.wav", 1, 0, 2, 0)))
	first := drv.Last()

	assert.ErrorIs(t, p.PlayFile("second.mp3"), ErrUnsupportedFileFormat)

	drv.BuildErr = errors.New("device busy")
	assert.ErrorIs(t, p.PlayFile(writeWAV(t, "third.wav", 0, 0)), ErrStream)

	assert.Equal(t, StatePlaying, p.State())
	name, _ := p.TrackName()
	assert.Equal(t, "first", name)
	assert.True(t, first.Playing())
	assert.False(t, first.Closed())
	assert.Equal(t, 1, drv.OpenDevices())
}

func TestPlayFileReplacesEngine(t *testing.T) {
	p, drv := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))
	require.NoError(t, p.PlayFile(writeWAV(t, "b.wav", 2, 0)))

	assert.Equal(t, []string{
		"open", "build 1", "play 1",
		"open", "build 2", "close 1", "release", "play 2",
	}, drv.Events())

	streams := drv.Streams()
	require.Len(t, streams, 2)
	assert.Equal(t, 1, streams[0].Closes())
	assert.True(t, streams[1].Playing())
	assert.Equal(t, 1, drv.OpenDevices())

	name, _ := p.TrackName()
	assert.Equal(t, "b", name)
}

func TestPlayFileReplacesPausedTrack(t *testing.T) {
	p, _ := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))
	require.NoError(t, p.TogglePlaying())
	require.Equal(t, StatePaused, p.State())

	require.NoError(t, p.PlayFile(writeWAV(t, "b.wav", 2, 0)))
	assert.Equal(t, StatePlaying, p.State())
}

func TestPlayFileStartFailureEmptiesPlayer(t *testing.T) {
	p, drv := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))

	drv.PlayErr = errors.New("device vanished")
	err := p.PlayFile(writeWAV(t, "b.wav", 2, 0))
	assert.ErrorIs(t, err, ErrStream)

	assert.Equal(t, StateWaitingForFile, p.State())
	assert.Nil(t, p.Track())
	assert.Zero(t, drv.OpenDevices())
	for _, s := range drv.Streams() {
		assert.True(t, s.Closed())
	}
}

func TestTogglePlaying(t *testing.T) {
	p, drv := newTestPlayer(t)

	require.NoError(t, p.TogglePlaying())
	assert.Equal(t, StateWaitingForFile, p.State())

	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0, 2, 0)))

	require.NoError(t, p.TogglePlaying())
	assert.Equal(t, StatePaused, p.State())
	assert.Equal(t, "Play", p.PauseOrPlayButtonText())
	assert.False(t, drv.Last().Playing())

	require.NoError(t, p.TogglePlaying())
	assert.Equal(t, StatePlaying, p.State())
	assert.True(t, drv.Last().Playing())
}

func TestTogglePlayingRejected(t *testing.T) {
	p, drv := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))

	drv.PauseErr = errors.New("stuck")
	assert.ErrorIs(t, p.TogglePlaying(), ErrStream)
	assert.Equal(t, StatePlaying, p.State())
}

func TestRestart(t *testing.T) {
	p, drv := newTestPlayer(t)
	require.NoError(t, p.Restart())

	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0, 2, 0, 3, 0, 4, 0)))
	drv.Last().Pump(3)
	require.NoError(t, p.TogglePlaying())

	require.NoError(t, p.Restart())
	assert.Equal(t, 0.0, p.Progress())
	assert.Equal(t, StatePaused, p.State())
}

func TestInfo(t *testing.T) {
	p, drv := newTestPlayer(t)
	assert.Equal(t, PlaybackInfo{State: StateWaitingForFile}, p.Info())

	// 8000 Hz stereo: 16000 samples per second.
	payload := make([]byte, 16000*2)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", payload...)))
	drv.Last().Pump(4000)

	info := p.Info()
	assert.Equal(t, StatePlaying, info.State)
	assert.Equal(t, time.Second, info.Duration)
	assert.Equal(t, 250*time.Millisecond, info.Position)
	assert.Equal(t, 750*time.Millisecond, info.Remaining())
	assert.InDelta(t, 0.25, info.Clamped(), 1e-9)
	assert.False(t, info.Finished)

	drv.Last().Pump(20000)
	info = p.Info()
	assert.Greater(t, info.Progress, 1.0)
	assert.Equal(t, 1.0, info.Clamped())
	assert.True(t, info.Finished)
}

func TestSubscribe(t *testing.T) {
	p, _ := newTestPlayer(t)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))

	ch := p.Subscribe()
	select {
	case info := <-ch:
		assert.Equal(t, StatePlaying, info.State)
	case <-time.After(2 * time.Second):
		t.Fatal("no playback info received")
	}

	p.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	drv := outputtest.New(stereoS16)
	p := NewAudioPlayer(drv)
	require.NoError(t, p.PlayFile(writeWAV(t, "a.wav", 1, 0)))

	ch := p.Subscribe()
	require.NoError(t, p.Close())

	for range ch {
	}
	assert.Equal(t, StateWaitingForFile, p.State())
	assert.Zero(t, drv.OpenDevices())

	_, open := <-p.Subscribe()
	assert.False(t, open)
}

func TestPlayStateString(t *testing.T) {
	assert.Equal(t, "Waiting for file", StateWaitingForFile.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Unknown", PlayState(42).String())
}

func TestSupportedExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".wav", ".wave"}, SupportedExtensions())
}
