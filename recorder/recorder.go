// SPDX-License-Identifier: EPL-2.0

// Package recorder captures sound from an input device into a pad.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/formats/wav"
	"github.com/ik5/padsampler/pad"
)

// FallbackPad receives recordings when no pad is selected.
const FallbackPad = pad.Pad1

// Target returns the pad a recording made while selected is active goes to.
func Target(selected pad.ID) pad.ID {
	if selected.Valid() {
		return selected
	}
	return FallbackPad
}

// Device is an input device delivering interleaved signed 16-bit
// little-endian PCM. onData may be called from any goroutine and must not
// retain its argument.
type Device interface {
	Start(onData func(pcm []byte)) error
	Stop() error
	SampleRate() int
	Channels() int
}

// Options tune a Recorder.
type Options struct {
	// Selected reports the currently selected pad. Nil means none.
	Selected func() pad.ID
	Logger   *slog.Logger
}

// Recorder runs at most one capture session at a time.
type Recorder struct {
	dev      Device
	bank     *bank.Bank
	selected func() pad.ID
	log      *slog.Logger

	mu       sync.Mutex
	starting bool
	active   bool
	session  string
	started time.Time
	data    []byte
}

func New(dev Device, b *bank.Bank, opts Options) *Recorder {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Recorder{
		dev:      dev,
		bank:     b,
		selected: opts.Selected,
		log:      log.With(slog.String("component", "recorder")),
	}
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.active
}

// Session is the ID of the active session, or "".
func (r *Recorder) Session() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.session
}

// Start opens the device and begins accumulating audio. It fails with
// ErrAlreadyRecording while a session runs or starts, and with ErrDevice
// when the device cannot be opened; no other state changes in either case.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.starting {
		return ErrAlreadyRecording
	}
	if r.dev == nil {
		return fmt.Errorf("%w: no input device", ErrDevice)
	}

	// The device may deliver data before Start returns. Until it does,
	// Stop is refused so the device is never stopped before it started.
	r.starting = true
	r.data = nil
	r.session = uuid.NewString()
	r.started = time.Now()

	r.mu.Unlock()
	err := r.dev.Start(r.push)
	r.mu.Lock()

	r.starting = false
	if err != nil {
		r.session = ""
		r.data = nil
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	r.active = true

	r.log.Info("recording started",
		slog.String("session", r.session),
		slog.Int("sample_rate", r.dev.SampleRate()),
		slog.Int("channels", r.dev.Channels()),
	)

	return nil
}

func (r *Recorder) push(pcm []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active || r.starting {
		r.data = append(r.data, pcm...)
	}
}

// Stop ends the session and stores the recording in the selected pad, or
// in FallbackPad when none is selected. It returns the pad written. When
// nothing usable was captured the bank is left untouched. While Start is
// still opening the device, Stop fails with ErrStarting.
func (r *Recorder) Stop() (pad.ID, error) {
	r.mu.Lock()
	if r.starting {
		r.mu.Unlock()
		return pad.None, ErrStarting
	}
	if !r.active {
		r.mu.Unlock()
		return pad.None, ErrNotRecording
	}
	r.active = false
	data := r.data
	r.data = nil
	session := r.session
	r.session = ""
	elapsed := time.Since(r.started)
	r.mu.Unlock()

	if err := r.dev.Stop(); err != nil {
		r.log.Warn("stopping capture device", slog.String("session", session), slog.Any("error", err))
	}

	buf, err := wav.DecodePCM16LE(data, r.dev.SampleRate(), r.dev.Channels())
	if errors.Is(err, audio.ErrEmptyStream) {
		return pad.None, ErrEmptyRecording
	}
	if err != nil {
		return pad.None, fmt.Errorf("decode recording: %w", err)
	}

	var selected pad.ID
	if r.selected != nil {
		selected = r.selected()
	}
	target := Target(selected)
	r.bank.Put(target, buf)

	r.log.Info("recording stored",
		slog.String("session", session),
		slog.String("pad", target.String()),
		slog.Duration("elapsed", elapsed),
		slog.Duration("length", buf.Duration()),
	)

	return target, nil
}
