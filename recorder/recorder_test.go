// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/pad"
)

// fakeDevice hands out whatever the test feeds it.
type fakeDevice struct {
	mu       sync.Mutex
	rate     int
	channels int
	startErr error
	stopErr  error
	onData   func([]byte)
	starts   int
	stops    int
}

func (d *fakeDevice) Start(onData func([]byte)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.startErr != nil {
		return d.startErr
	}
	d.starts++
	d.onData = onData
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stops++
	d.onData = nil
	return d.stopErr
}

func (d *fakeDevice) SampleRate() int { return d.rate }
func (d *fakeDevice) Channels() int   { return d.channels }

func (d *fakeDevice) feed(samples ...int16) {
	d.mu.Lock()
	fn := d.onData
	d.mu.Unlock()

	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	if fn != nil {
		fn(pcm)
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		selected pad.ID
		want     pad.ID
	}{
		{pad.None, pad.Pad1},
		{pad.Pad5, pad.Pad5},
		{pad.Pad9, pad.Pad9},
		{pad.ID(42), pad.Pad1},
	}

	for _, tt := range tests {
		if got := Target(tt.selected); got != tt.want {
			t.Errorf("Target(%v) = %v, want %v", tt.selected, got, tt.want)
		}
	}
}

func TestRecorder_RecordIntoSelectedPad(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{rate: 8000, channels: 1}
	b := bank.New()
	r := New(dev, b, Options{Selected: func() pad.ID { return pad.Pad6 }})

	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !r.Recording() || r.Session() == "" {
		t.Fatal("no active session after Start()")
	}

	dev.feed(0, 16384, -16384)
	dev.feed(32767, -32768)

	id, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if id != pad.Pad6 {
		t.Errorf("Stop() pad = %v, want pad6", id)
	}
	if r.Recording() || r.Session() != "" {
		t.Error("session still active after Stop()")
	}
	if dev.stops != 1 {
		t.Errorf("device stopped %d times, want 1", dev.stops)
	}

	buf, ok := b.Get(pad.Pad6)
	if !ok {
		t.Fatal("recording not stored")
	}
	if buf.Frames() != 5 || buf.SampleRate() != 8000 || buf.Channels() != 1 {
		t.Errorf("buffer = %d frames, %d Hz, %d ch", buf.Frames(), buf.SampleRate(), buf.Channels())
	}
	if got := buf.Channel(0); got[0] != 0 || got[1] <= 0 || got[2] >= 0 || got[4] != -1 {
		t.Errorf("samples = %v", got)
	}

	// Data arriving after Stop is dropped.
	dev.feed(1, 2, 3)
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("second Stop() error = %v, want ErrNotRecording", err)
	}
}

func TestRecorder_FallbackPad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selected func() pad.ID
	}{
		{"no selector", nil},
		{"nothing selected", func() pad.ID { return pad.None }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dev := &fakeDevice{rate: 8000, channels: 2}
			b := bank.New()
			r := New(dev, b, Options{Selected: tt.selected})

			if err := r.Start(); err != nil {
				t.Fatal(err)
			}
			dev.feed(100, -100, 200, -200)

			id, err := r.Stop()
			if err != nil || id != FallbackPad {
				t.Fatalf("Stop() = %v, %v, want %v", id, err, FallbackPad)
			}
			if buf, ok := b.Get(pad.Pad1); !ok || buf.Channels() != 2 || buf.Frames() != 2 {
				t.Error("stereo recording not stored in pad1")
			}
		})
	}
}

func TestRecorder_Errors(t *testing.T) {
	t.Parallel()

	t.Run("already recording", func(t *testing.T) {
		t.Parallel()

		dev := &fakeDevice{rate: 8000, channels: 1}
		r := New(dev, bank.New(), Options{})
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
		session := r.Session()

		if err := r.Start(); !errors.Is(err, ErrAlreadyRecording) {
			t.Errorf("Start() error = %v, want ErrAlreadyRecording", err)
		}
		if r.Session() != session || dev.starts != 1 {
			t.Error("rejected Start() changed the running session")
		}
	})

	t.Run("device unavailable", func(t *testing.T) {
		t.Parallel()

		denied := errors.New("permission denied")
		dev := &fakeDevice{rate: 8000, channels: 1, startErr: denied}
		b := bank.New()
		r := New(dev, b, Options{})

		err := r.Start()
		if !errors.Is(err, ErrDevice) || !errors.Is(err, denied) {
			t.Errorf("Start() error = %v, want ErrDevice wrapping the cause", err)
		}
		if r.Recording() || b.Len() != 0 {
			t.Error("failed Start() changed state")
		}
		if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
			t.Errorf("Stop() error = %v, want ErrNotRecording", err)
		}
	})

	t.Run("no device", func(t *testing.T) {
		t.Parallel()

		r := New(nil, bank.New(), Options{})
		if err := r.Start(); !errors.Is(err, ErrDevice) {
			t.Errorf("Start() error = %v, want ErrDevice", err)
		}
	})

	t.Run("empty recording", func(t *testing.T) {
		t.Parallel()

		dev := &fakeDevice{rate: 8000, channels: 1}
		b := bank.New()
		r := New(dev, b, Options{})
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}

		if _, err := r.Stop(); !errors.Is(err, ErrEmptyRecording) {
			t.Errorf("Stop() error = %v, want ErrEmptyRecording", err)
		}
		if b.Len() != 0 {
			t.Error("empty recording touched the bank")
		}

		if err := r.Start(); err != nil {
			t.Errorf("Start() after an empty session: %v", err)
		}
	})

	t.Run("device stop failure is not fatal", func(t *testing.T) {
		t.Parallel()

		dev := &fakeDevice{rate: 8000, channels: 1, stopErr: errors.New("busy")}
		r := New(dev, bank.New(), Options{})
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
		dev.feed(1, 2)

		if _, err := r.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
}

// slowDevice blocks in Start until release is closed.
type slowDevice struct {
	fakeDevice
	entered chan struct{}
	release chan struct{}
}

func (d *slowDevice) Start(onData func([]byte)) error {
	close(d.entered)
	<-d.release
	return d.fakeDevice.Start(onData)
}

func TestRecorder_StopWhileStarting(t *testing.T) {
	t.Parallel()

	dev := &slowDevice{
		fakeDevice: fakeDevice{rate: 8000, channels: 1},
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	b := bank.New()
	r := New(dev, b, Options{})

	started := make(chan error, 1)
	go func() { started <- r.Start() }()
	<-dev.entered

	if _, err := r.Stop(); !errors.Is(err, ErrStarting) {
		t.Errorf("Stop() while starting error = %v, want ErrStarting", err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start() while starting error = %v, want ErrAlreadyRecording", err)
	}
	if r.Recording() {
		t.Error("Recording() = true before the device started")
	}

	close(dev.release)
	if err := <-started; err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if !r.Recording() || r.Session() == "" {
		t.Fatal("session not active after the device started")
	}

	dev.feed(5, 6, 7)
	id, err := r.Stop()
	if err != nil || id != FallbackPad {
		t.Fatalf("Stop() = %v, %v", id, err)
	}
	if dev.starts != 1 || dev.stops != 1 {
		t.Errorf("device starts/stops = %d/%d, want 1/1", dev.starts, dev.stops)
	}
	if buf, ok := b.Get(FallbackPad); !ok || buf.Frames() != 3 {
		t.Error("recording not stored after a refused early Stop")
	}
}
