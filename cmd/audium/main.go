// Command audium is a terminal WAV player.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dewi-tim/audium/internal/config"
	"github.com/dewi-tim/audium/internal/output"
	"github.com/dewi-tim/audium/internal/player"
	"github.com/dewi-tim/audium/internal/ui"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "audium: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "audium: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.NoTUI {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		// TUI mode: log only to file
		log.SetOutput(f)
	}

	drv, err := output.New(cfg.Backend, cfg.Output)
	if err != nil {
		return err
	}
	log.Printf("Starting audium with %s backend", drv.Name())

	p := player.NewAudioPlayer(drv)
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("Error closing player: %v", err)
		}
	}()

	if cfg.NoTUI {
		return playHeadless(p, cfg.File)
	}

	m := ui.New(p, cfg.Dir).WithFile(cfg.File)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// playHeadless plays file once, logging progress every second, until it
// ends or a shutdown signal arrives.
func playHeadless(p *player.AudioPlayer, file string) error {
	if err := p.PlayFile(file); err != nil {
		return err
	}

	track := p.Track()
	if track.Info != nil {
		log.Printf("Playing %s (%s) on %s", track.Name, track.Info, track.Output)
	} else {
		log.Printf("Playing %s on %s", track.Name, track.Output)
	}

	updates := p.Subscribe()
	defer p.Unsubscribe(updates)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	lastSecond := time.Duration(-1)
	for {
		select {
		case info, ok := <-updates:
			if !ok {
				return nil
			}
			if info.Finished {
				log.Printf("Finished %s", track.Name)
				return nil
			}
			if s := info.Position.Truncate(time.Second); s != lastSecond {
				lastSecond = s
				log.Printf("%s %s / %s (%3.0f%%)", info.State, s, info.Duration.Round(time.Second), info.Clamped()*100)
			}
		case <-sigChan:
			log.Printf("Shutdown signal received")
			return nil
		}
	}
}
