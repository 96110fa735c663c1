// SPDX-License-Identifier: EPL-2.0

// Package config loads and saves the sampler settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const appName = "padsampler"

// CaptureConfig selects the microphone format.
type CaptureConfig struct {
	SampleRate int `json:"sampleRate"`
	Channels   int `json:"channels"`
}

// Config is the content of config.json.
type Config struct {
	// PresetSource is an http(s) URL of the preset service, or a directory.
	PresetSource string `json:"presetSource"`

	SampleRate      int `json:"sampleRate"`
	ResampleQuality int `json:"resampleQuality"`
	// MaxConcurrentLoads caps parallel sound fetches. Zero is unlimited.
	MaxConcurrentLoads int `json:"maxConcurrentLoads"`

	ResetParamsOnSwitch bool `json:"resetParamsOnSwitch"`
	LoadFirstPreset     bool `json:"loadFirstPreset"`

	Capture CaptureConfig `json:"capture"`

	MIDIInPort string `json:"midiInPort,omitempty"`
	LogLevel   string `json:"logLevel"`
	LogFile    string `json:"logFile,omitempty"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:          44100,
		ResampleQuality:     4,
		ResetParamsOnSwitch: true,
		LoadFirstPreset:     true,
		Capture: CaptureConfig{
			SampleRate: 44100,
			Channels:   1,
		},
		LogLevel: "info",
	}
}

// ConfigDir returns ~/.config/padsampler.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// PresetDir is the default local preset directory.
func PresetDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets"), nil
}

// Load reads the file at path. A missing file yields DefaultConfig, and
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes c to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
