// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/gomidi/midi/v2"

	"github.com/ik5/padsampler"
	"github.com/ik5/padsampler/internal/capture"
	"github.com/ik5/padsampler/internal/config"
	"github.com/ik5/padsampler/internal/logging"
	"github.com/ik5/padsampler/internal/output"
	"github.com/ik5/padsampler/internal/tui"
	"github.com/ik5/padsampler/loader"
	"github.com/ik5/padsampler/preset"
	"github.com/ik5/padsampler/presetapi"
	"github.com/ik5/padsampler/presetstore"
	"github.com/ik5/padsampler/recorder"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "padsampler:", err)
		os.Exit(1)
	}
}

func run() error {
	defaultPath, _ := config.ConfigPath()

	configPath := flag.String("config", defaultPath, "Path to config.json")
	source := flag.String("source", "", "Preset service URL or preset directory")
	rate := flag.Int("rate", 0, "Output sample rate in Hz")
	midiPort := flag.String("midi", "", "MIDI input port name (substring match)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Log file (the terminal belongs to the UI)")
	listMIDI := flag.Bool("list-midi", false, "List MIDI input ports and exit")
	saveConfig := flag.Bool("save-config", false, "Write the effective config back to -config")
	flag.Parse()

	defer midi.CloseDriver()

	if *listMIDI {
		for _, in := range midi.GetInPorts() {
			fmt.Println(in.String())
		}
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.PresetSource = *source
		case "rate":
			cfg.SampleRate = *rate
		case "midi":
			cfg.MIDIInPort = *midiPort
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})

	if *saveConfig {
		if err := cfg.Save(*configPath); err != nil {
			return err
		}
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(*configPath), "padsampler.log")
	}
	lf, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer lf.Close()

	log := logging.New(level, lf)
	slog.SetDefault(log)

	presets, opener, err := openPresets(cfg.PresetSource, log)
	if err != nil {
		return err
	}

	opts := padsampler.Options{
		Presets:             presets,
		Opener:              opener,
		SampleRate:          cfg.SampleRate,
		ResampleQuality:     cfg.ResampleQuality,
		MaxConcurrentLoads:  cfg.MaxConcurrentLoads,
		ResetParamsOnSwitch: cfg.ResetParamsOnSwitch,
		Logger:              log,
	}

	mic, err := capture.Open(cfg.Capture.SampleRate, cfg.Capture.Channels, log)
	if err != nil {
		log.Warn("recording disabled", slog.Any("error", err))
	} else {
		defer mic.Close()
		opts.Capture = recorder.Device(mic)
	}

	s := padsampler.New(opts)
	defer s.Close()

	out, err := output.Open(s.SampleRate())
	if err != nil {
		log.Warn("playback disabled", slog.Any("error", err))
	} else {
		defer out.Close()
		if err := out.Play(s.Audio()); err != nil {
			return err
		}
	}

	if cfg.MIDIInPort != "" {
		in, err := midi.FindInPort(cfg.MIDIInPort)
		if err != nil {
			log.Warn("MIDI input not found", slog.String("port", cfg.MIDIInPort), slog.Any("error", err))
		} else if err := s.ListenMIDI(in); err != nil {
			log.Warn("MIDI input unavailable", slog.String("port", cfg.MIDIInPort), slog.Any("error", err))
		}
	}

	if cfg.LoadFirstPreset {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err := s.LoadFirstPreset(ctx)
		cancel()
		if err != nil && !errors.Is(err, padsampler.ErrNoPresets) {
			log.Warn("loading first preset", slog.Any("error", err))
		}
	}

	p := tea.NewProgram(tui.NewModel(s), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	if out != nil {
		if err := out.Err(); err != nil {
			log.Error("audio output", slog.Any("error", err))
		}
	}
	return nil
}

// openPresets picks the preset service for http(s) sources and a local
// directory otherwise. Remote sounds are fetched over HTTP, everything
// else from disk.
func openPresets(source string, log *slog.Logger) (preset.Store, loader.Opener, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client, err := presetapi.New(source, &http.Client{Timeout: 2 * time.Minute}, log)
		if err != nil {
			return nil, nil, err
		}

		mux := loader.NewMux(loader.FileOpener{})
		mux.Handle("http", client)
		mux.Handle("https", client)
		return client, mux, nil
	}

	dir := source
	if dir == "" {
		d, err := config.PresetDir()
		if err != nil {
			return nil, nil, err
		}
		dir = d
	}

	store, err := presetstore.Open(dir, log)
	if err != nil {
		return nil, nil, err
	}
	return store, loader.FileOpener{Dir: store.Root()}, nil
}
