package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/pcm"
)

// clearEnv makes sure no AUDIUM_* variable leaks into or out of a test.
// godotenv writes straight to the process environment, so variables it
// sets are removed on cleanup as well.
func clearEnv(t *testing.T) {
	t.Helper()

	vars := []string{EnvBackend, EnvDir, EnvLogFile, EnvSampleRate, EnvChannels, EnvFormat}
	for _, v := range vars {
		if old, ok := os.LookupEnv(v); ok {
			t.Cleanup(func() { os.Setenv(v, old) })
		}
		os.Unsetenv(v)
	}
	t.Cleanup(func() {
		for _, v := range vars {
			os.Unsetenv(v)
		}
	})
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]string{"-env", writeEnvFile(t, "")}, io.Discard)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want, cfg)
	assert.Equal(t, output.BackendMalgo, cfg.Backend)
}

func TestParseMissingDefaultEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	_, err := Parse(nil, io.Discard)
	assert.NoError(t, err)
}

func TestParseMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Parse([]string{"-env", filepath.Join(t.TempDir(), "nope.env")}, io.Discard)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParsePrecedence(t *testing.T) {
	clearEnv(t)

	envFile := writeEnvFile(t, "AUDIUM_BACKEND=oto\nAUDIUM_DIR=/from/dotenv\nAUDIUM_SAMPLE_RATE=22050\nAUDIUM_FORMAT=f32\n")
	t.Setenv(EnvDir, "/from/env")
	t.Setenv(EnvChannels, "1")

	cfg, err := Parse([]string{"-env", envFile, "-rate", "48000", "song.wav"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, output.BackendOto, cfg.Backend, ".env beats default")
	assert.Equal(t, "/from/env", cfg.Dir, "environment beats .env")
	assert.Equal(t, 48000, cfg.Output.SampleRate, "flag beats .env")
	assert.Equal(t, 1, cfg.Output.Channels)
	assert.Equal(t, pcm.FormatF32, cfg.Output.Format)
	assert.Equal(t, "song.wav", cfg.File)
}

func TestParseFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "oto")

	cfg, err := Parse([]string{
		"-env", writeEnvFile(t, ""),
		"-backend", "malgo",
		"-dir", "/music",
		"-log-file", "/tmp/a.log",
		"-format", "u8",
		"-channels", "6",
		"-no-tui",
		"x.wav",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Backend: "malgo",
		Dir:     "/music",
		LogFile: "/tmp/a.log",
		NoTUI:   true,
		Output:  output.Config{SampleRate: 44100, Channels: 6, Format: pcm.FormatU8},
		File:    "x.wav",
	}, cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"unknown backend flag", nil, []string{"-backend", "jack"}},
		{"unknown backend env", map[string]string{EnvBackend: "pulse"}, nil},
		{"bad format flag", nil, []string{"-format", "s24"}},
		{"bad format env", map[string]string{EnvFormat: "wat"}, nil},
		{"bad rate env", map[string]string{EnvSampleRate: "fast"}, nil},
		{"zero channels", nil, []string{"-channels", "0"}},
		{"negative rate", nil, []string{"-rate", "-1"}},
		{"headless without file", nil, []string{"-no-tui"}},
		{"two files", nil, []string{"a.wav", "b.wav"}},
		{"unknown flag", nil, []string{"-volume", "11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := append([]string{"-env", writeEnvFile(t, "")}, tt.args...)
			_, err := Parse(args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseHelp(t *testing.T) {
	clearEnv(t)

	_, err := Parse([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}
