// SPDX-License-Identifier: EPL-2.0

//go:build headless

package output

import (
	"io"
	"sync"
	"time"
)

const tick = 10 * time.Millisecond

// Device consumes the stream at the nominal rate without producing sound.
type Device struct {
	frameBytes int

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	err    error
	closed bool
}

func Open(sampleRate int) (*Device, error) {
	return &Device{frameBytes: sampleRate * Channels * 4 / int(time.Second/tick)}, nil
}

func (d *Device) Play(r io.Reader) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.halt()

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(r, d.stop, d.done)
	return nil
}

func (d *Device) run(r io.Reader, stop, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(tick)
	defer t.Stop()

	buf := make([]byte, d.frameBytes)
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if _, err := r.Read(buf); err != nil {
				d.mu.Lock()
				d.err = err
				d.mu.Unlock()
				return
			}
		}
	}
}

// halt stops the running stream. Called with d.mu held.
func (d *Device) halt() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	done := d.done
	d.stop, d.done = nil, nil

	d.mu.Unlock()
	<-done
	d.mu.Lock()
}

func (d *Device) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.err
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.halt()
	return nil
}
