// SPDX-License-Identifier: EPL-2.0

//go:build headless

package capture

import "log/slog"

// Device stands in for a missing microphone.
type Device struct {
	rate     int
	channels int
}

func Open(sampleRate, channels int, _ *slog.Logger) (*Device, error) {
	return &Device{rate: sampleRate, channels: channels}, nil
}

func (d *Device) SampleRate() int { return d.rate }
func (d *Device) Channels() int   { return d.channels }

func (d *Device) Start(func([]byte)) error { return ErrNoDevice }
func (d *Device) Stop() error              { return nil }
func (d *Device) Close() error             { return nil }
