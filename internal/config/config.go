// Package config loads audium settings from defaults, an optional .env
// file, AUDIUM_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/pcm"
)

const (
	DefaultEnvFile = ".env"
	DefaultLogFile = "audium.log"
)

// Environment variables read by Parse.
const (
	EnvBackend    = "AUDIUM_BACKEND"
	EnvDir        = "AUDIUM_DIR"
	EnvLogFile    = "AUDIUM_LOG_FILE"
	EnvSampleRate = "AUDIUM_SAMPLE_RATE"
	EnvChannels   = "AUDIUM_CHANNELS"
	EnvFormat     = "AUDIUM_FORMAT"
)

// Config holds the process settings.
type Config struct {
	Backend string
	Dir     string
	LogFile string
	NoTUI   bool

	// Stream configuration for backends that cannot query the device
	Output output.Config

	// Optional file to start playing immediately
	File string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend: output.BackendMalgo,
		Dir:     ".",
		LogFile: DefaultLogFile,
		Output: output.Config{
			SampleRate: 44100,
			Channels:   2,
			Format:     pcm.FormatS16,
		},
	}
}

// Parse builds the configuration for the audium command from its arguments
// (without the program name).
func Parse(args []string, stderr io.Writer) (Config, error) {
	var (
		envFile  string
		backend  string
		dir      string
		logFile  string
		noTUI    bool
		rate     int
		channels int
		format   string
	)

	flags := flag.NewFlagSet("audium", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&envFile, "env", DefaultEnvFile, "path to a .env file")
	flags.StringVar(&backend, "backend", "", fmt.Sprintf("audio backend %v", output.Backends))
	flags.StringVar(&dir, "dir", "", "directory the file browser starts in")
	flags.StringVar(&logFile, "log-file", "", "log file path")
	flags.BoolVar(&noTUI, "no-tui", false, "play the given file without the terminal UI")
	flags.IntVar(&rate, "rate", 0, "sample rate (oto backend)")
	flags.IntVar(&channels, "channels", 0, "channel count (oto backend)")
	flags.StringVar(&format, "format", "", "sample format u8|s16|f32 (oto backend)")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: audium [flags] [file.wav]\n\nFlags:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	envSet := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "env" {
			envSet = true
		}
	})

	cfg := Default()
	if err := loadEnvFile(envFile, envSet); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	var flagErr error
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = backend
		case "dir":
			cfg.Dir = dir
		case "log-file":
			cfg.LogFile = logFile
		case "no-tui":
			cfg.NoTUI = noTUI
		case "rate":
			cfg.Output.SampleRate = rate
		case "channels":
			cfg.Output.Channels = channels
		case "format":
			pf, err := pcm.ParseFormat(format)
			if err != nil {
				flagErr = err
			}
			cfg.Output.Format = pf
		}
	})
	if flagErr != nil {
		return Config{}, flagErr
	}

	if flags.NArg() > 1 {
		return Config{}, fmt.Errorf("expected at most one file, got %d", flags.NArg())
	}
	cfg.File = flags.Arg(0)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = v
	}
	if v, ok := lookup(EnvDir); ok && v != "" {
		c.Dir = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvSampleRate); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSampleRate, err)
		}
		c.Output.SampleRate = n
	}
	if v, ok := lookup(EnvChannels); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvChannels, err)
		}
		c.Output.Channels = n
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		f, err := pcm.ParseFormat(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFormat, err)
		}
		c.Output.Format = f
	}
	return nil
}

// Validate checks the settings that can be checked without a device.
func (c Config) Validate() error {
	if !slices.Contains(output.Backends, c.Backend) {
		return fmt.Errorf("unknown audio backend %q (supported: %v)", c.Backend, output.Backends)
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if c.NoTUI && c.File == "" {
		return errors.New("-no-tui needs a file to play")
	}
	return nil
}
