// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package capture

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"
)

// Device captures from the system default input.
type Device struct {
	ctx      *malgo.AllocatedContext
	rate     int
	channels int

	mu  sync.Mutex
	dev *malgo.Device
}

// Open initializes the audio backend. No device is opened until Start.
func Open(sampleRate, channels int, log *slog.Logger) (*Device, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "capture"))

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug(message)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	return &Device{ctx: ctx, rate: sampleRate, channels: channels}, nil
}

func (d *Device) SampleRate() int { return d.rate }
func (d *Device) Channels() int   { return d.channels }

// Start opens the default input and calls onData with every captured
// period.
func (d *Device) Start(onData func(pcm []byte)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev != nil {
		return ErrStarted
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = uint32(d.channels)
	cfg.SampleRate = uint32(d.rate)
	cfg.Alsa.NoMMap = 1

	dev, err := malgo.InitDevice(d.ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onData(input)
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		return fmt.Errorf("start capture: %w", err)
	}

	d.dev = dev
	return nil
}

func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return nil
	}

	err := d.dev.Stop()
	d.dev.Uninit()
	d.dev = nil
	if err != nil {
		return fmt.Errorf("stop capture: %w", err)
	}
	return nil
}

// Close stops capturing and releases the backend.
func (d *Device) Close() error {
	stopErr := d.Stop()

	err := d.ctx.Uninit()
	d.ctx.Free()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return stopErr
}
