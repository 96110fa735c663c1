// SPDX-License-Identifier: EPL-2.0

package padsampler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/export"
	"github.com/ik5/padsampler/formats"
	"github.com/ik5/padsampler/loader"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
	"github.com/ik5/padsampler/preset"
	"github.com/ik5/padsampler/recorder"
	"github.com/ik5/padsampler/voice"
)

// Options wire a Sampler to its collaborators. Every field is optional.
type Options struct {
	// Presets lists and fetches presets.
	Presets preset.Source
	// Sink receives exports. When nil and Presets is also a preset.Sink,
	// Presets is used.
	Sink preset.Sink
	// Opener resolves sound locators. Defaults to loader.FileOpener.
	Opener loader.Opener
	// Registry decodes fetched bytes. Defaults to formats.NewRegistry.
	Registry *audio.Registry
	// Capture is the microphone. Without one, recording fails with
	// recorder.ErrDevice.
	Capture recorder.Device

	SampleRate         int
	ResampleQuality    int
	MaxConcurrentLoads int
	// ResetParamsOnSwitch resets all pad parameters whenever a preset
	// load begins.
	ResetParamsOnSwitch bool

	Logger *slog.Logger
}

// Sampler is the nine-pad sample player.
type Sampler struct {
	params   *params.Store
	bank     *bank.Bank
	coord    *loader.Coordinator
	voices   *voice.Engine
	recorder *recorder.Recorder
	exporter *export.Exporter
	presets  preset.Source
	log      *slog.Logger

	mu        sync.Mutex
	selected  pad.ID
	listeners []func(Event)
	stopMIDI  []func()
}

func New(opts Options) *Sampler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = formats.NewRegistry()
	}
	opener := opts.Opener
	if opener == nil {
		opener = loader.FileOpener{}
	}
	sink := opts.Sink
	if sink == nil {
		sink, _ = opts.Presets.(preset.Sink)
	}

	s := &Sampler{
		params:  params.NewStore(),
		bank:    bank.New(),
		presets: opts.Presets,
		log:     log,
	}

	s.coord = loader.NewCoordinator(loader.New(opener, registry), s.bank, s.params, loader.Options{
		Limit:       opts.MaxConcurrentLoads,
		ResetParams: opts.ResetParamsOnSwitch,
		Logger:      log,
	})
	s.voices = voice.New(s.bank, s.params, voice.Options{
		SampleRate: opts.SampleRate,
		Quality:    opts.ResampleQuality,
		Logger:     log,
	})
	s.recorder = recorder.New(opts.Capture, s.bank, recorder.Options{
		Selected: s.Selected,
		Logger:   log,
	})
	s.exporter = export.New(s.bank, sink, log)

	s.coord.Subscribe(func(ev loader.Event) {
		s.emit(Event{Kind: LoadChanged, Pad: ev.Pad, Generation: ev.Generation, Load: ev.State})
	})
	s.params.OnChange(func(id pad.ID, p params.Params) {
		s.emit(Event{Kind: ParamsChanged, Pad: id, Params: p})
	})
	s.bank.OnChange(func(id pad.ID) {
		s.emit(Event{Kind: BufferChanged, Pad: id})
	})
	s.voices.OnEnd(func(id pad.ID) {
		s.emit(Event{Kind: VoiceEnded, Pad: id})
	})

	return s
}

// Subscribe adds fn to the receivers of state changes. Load events arrive
// in order; fn may read sampler state but must return quickly and must not
// start a preset load itself.
func (s *Sampler) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Sampler) emit(ev Event) {
	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Presets lists the available presets of category, or all of them when
// category is empty.
func (s *Sampler) Presets(ctx context.Context, category string) ([]preset.Summary, error) {
	if s.presets == nil {
		return nil, ErrNoPresetSource
	}

	list, err := s.presets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return preset.Filter(list, category), nil
}

// Categories lists the distinct categories of the available presets.
func (s *Sampler) Categories(ctx context.Context) ([]string, error) {
	list, err := s.Presets(ctx, "")
	if err != nil {
		return nil, err
	}
	return preset.Categories(list), nil
}

// LoadPreset fetches preset id and starts loading its sounds. Only the
// fetch can fail; per-sound failures show up as loader.Failed states.
// ctx bounds the fetch alone: the sounds keep loading after LoadPreset
// returns, until they finish or a newer preset load supersedes them.
func (s *Sampler) LoadPreset(ctx context.Context, id string) (*loader.Run, error) {
	if s.presets == nil {
		return nil, ErrNoPresetSource
	}

	p, err := s.presets.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch preset %q: %w", id, err)
	}
	return s.Load(context.WithoutCancel(ctx), p), nil
}

// Load starts loading the sounds of p, superseding any load in flight.
// Canceling ctx aborts the sound fetches of this load.
func (s *Sampler) Load(ctx context.Context, p preset.Preset) *loader.Run {
	return s.coord.LoadPreset(ctx, p)
}

// LoadFirstPreset loads the first preset the source lists. It is the
// default selection at start-up. As with LoadPreset, ctx bounds the
// listing and the fetch only.
func (s *Sampler) LoadFirstPreset(ctx context.Context) (*loader.Run, error) {
	list, err := s.Presets(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoPresets
	}
	return s.LoadPreset(ctx, list[0].ID)
}

func (s *Sampler) LoadState(id pad.ID) loader.State {
	return s.coord.State(id)
}

// Generation is the token of the latest preset load.
func (s *Sampler) Generation() uint64 {
	return s.coord.Generation()
}

// Buffer returns the sound loaded on id.
func (s *Sampler) Buffer(id pad.ID) (*audio.Buffer, bool) {
	return s.bank.Get(id)
}

// Peaks summarizes the sound on id into n waveform columns.
func (s *Sampler) Peaks(id pad.ID, n int) []audio.Peak {
	buf, ok := s.bank.Get(id)
	if !ok {
		return nil
	}
	return audio.Peaks(buf, n)
}

func (s *Sampler) Params(id pad.ID) params.Params {
	return s.params.Get(id)
}

// SetParam updates one parameter of id and returns the stored result,
// after clamping and trim correction.
func (s *Sampler) SetParam(id pad.ID, f params.Field, v float64) params.Params {
	return s.params.Set(id, f, v)
}

// ResetParams returns every pad to default parameters.
func (s *Sampler) ResetParams() {
	s.params.Reset()
}

// Select makes id the selected pad. pad.None clears the selection.
func (s *Sampler) Select(id pad.ID) {
	if id != pad.None && !id.Valid() {
		return
	}

	s.mu.Lock()
	changed := s.selected != id
	s.selected = id
	s.mu.Unlock()

	if changed {
		s.emit(Event{Kind: SelectionChanged, Pad: id})
	}
}

func (s *Sampler) Selected() pad.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// Trigger plays id without changing the selection. Pads without a sound
// are ignored.
func (s *Sampler) Trigger(id pad.ID) bool {
	return s.voices.Trigger(id)
}

// Press is a pointer or keyboard hit on id: it selects the pad and plays it.
func (s *Sampler) Press(id pad.ID) bool {
	if !id.Valid() {
		return false
	}
	s.Select(id)
	return s.voices.Trigger(id)
}

// PressKey resolves key through the keyboard table and presses the pad.
func (s *Sampler) PressKey(key string) (pad.ID, bool) {
	id, ok := pad.FromKey(key)
	if !ok {
		return pad.None, false
	}
	return id, s.Press(id)
}

// PressMIDI resolves a raw note-on message and presses the pad.
func (s *Sampler) PressMIDI(msg []byte) (pad.ID, bool) {
	id, ok := pad.FromMIDI(msg)
	if !ok {
		return pad.None, false
	}
	return id, s.Press(id)
}

// ListenMIDI presses pads for the note-ons arriving on in until Close.
func (s *Sampler) ListenMIDI(in drivers.In) error {
	stop, err := pad.ListenMIDI(in, func(id pad.ID) {
		s.Press(id)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.stopMIDI = append(s.stopMIDI, stop)
	s.mu.Unlock()

	s.log.Info("listening for MIDI", slog.String("port", in.String()))
	return nil
}

func (s *Sampler) Stop(id pad.ID) bool {
	return s.voices.Stop(id)
}

func (s *Sampler) StopAll() {
	s.voices.StopAll()
}

func (s *Sampler) Playing(id pad.ID) bool {
	return s.voices.Playing(id)
}

// Audio is the mixed output as little-endian float32 stereo frames at
// SampleRate.
func (s *Sampler) Audio() io.Reader {
	return s.voices
}

func (s *Sampler) SampleRate() int {
	return s.voices.SampleRate()
}

// StartRecording begins capturing from the microphone.
func (s *Sampler) StartRecording() error {
	return s.recorder.Start()
}

// StopRecording stores the capture in the selected pad, or in
// recorder.FallbackPad, and returns that pad.
func (s *Sampler) StopRecording() (pad.ID, error) {
	return s.recorder.Stop()
}

func (s *Sampler) Recording() bool {
	return s.recorder.Recording()
}

// Export uploads every loaded pad as a new preset.
func (s *Sampler) Export(ctx context.Context, name, category string) (preset.Preset, error) {
	return s.exporter.Export(ctx, name, category)
}

// Close stops playback, MIDI input and any running recording.
func (s *Sampler) Close() error {
	s.mu.Lock()
	stops := s.stopMIDI
	s.stopMIDI = nil
	s.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	s.voices.StopAll()

	if s.recorder.Recording() {
		if _, err := s.recorder.Stop(); err != nil {
			s.log.Debug("discarding recording on close", slog.Any("error", err))
		}
	}
	return nil
}
