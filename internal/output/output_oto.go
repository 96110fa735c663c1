// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// bufferSize keeps trigger latency low.
const bufferSize = 20 * time.Millisecond

// Device is the oto context and its single player.
type Device struct {
	ctx *oto.Context

	mu     sync.Mutex
	player *oto.Player
	closed bool
}

// Open initializes the audio device for sampleRate. Only one Device may
// exist per process.
func Open(sampleRate int) (*Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready

	return &Device{ctx: ctx}, nil
}

// Play starts pulling little-endian float32 stereo frames from r,
// replacing any stream already playing.
func (d *Device) Play(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.player != nil {
		d.player.Close()
	}

	d.player = d.ctx.NewPlayer(r)
	d.player.Play()
	return nil
}

// Err reports a failure of the underlying driver.
func (d *Device) Err() error {
	return d.ctx.Err()
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
