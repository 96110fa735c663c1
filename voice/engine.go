// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"encoding/binary"
	"log/slog"
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
	"github.com/ik5/padsampler/utils"
)

const (
	// DefaultQuality is the pitch resampling quality.
	DefaultQuality = 4

	// FrameSize is the byte size of one output frame: two float32 samples.
	FrameSize = 8
)

// Options tune an Engine.
type Options struct {
	// SampleRate of the mixed output. Buffers at other rates are converted.
	SampleRate int
	// Quality of the pitch resampler, 1 to 64.
	Quality int
	Logger  *slog.Logger
}

// Engine plays pads. Each pad has at most one voice: triggering a pad that
// is still sounding cuts the old voice before the new one starts. Up to
// pad.Count voices are mixed together.
//
// Engine is a beep.Streamer producing the stereo mix, and an io.Reader
// producing the same mix as interleaved little-endian float32.
type Engine struct {
	bank    *bank.Bank
	params  *params.Store
	rate    int
	quality int
	log     *slog.Logger

	mu     sync.Mutex
	voices [pad.Count]*voice
	onEnd  func(pad.ID)

	// Only touched by the goroutine pulling audio.
	mix [][2]float64
	tmp [][2]float64
}

type voice struct {
	id     pad.ID
	src    audio.Source
	stream beep.Streamer
}

func New(b *bank.Bank, p *params.Store, opts Options) *Engine {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		bank:    b,
		params:  p,
		rate:    rate,
		quality: utils.Clamp(quality, 1, 64),
		log:     log.With(slog.String("component", "voice")),
	}
}

func (e *Engine) SampleRate() int { return e.rate }

// Format reports the output format as a beep.Format.
func (e *Engine) Format() beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(e.rate), NumChannels: 2, Precision: 4}
}

// OnEnd registers fn to be called when a voice finishes on its own. It is
// not called for voices that are stopped or replaced.
func (e *Engine) OnEnd(fn func(pad.ID)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onEnd = fn
}

// Trigger starts pad id with its current parameters. A pad without a
// buffer is silently ignored and Trigger reports false.
func (e *Engine) Trigger(id pad.ID) bool {
	buf, ok := e.bank.Get(id)
	if !ok {
		return false
	}

	v := e.build(id, buf, e.params.Get(id))

	e.mu.Lock()
	old := e.voices[id.Index()]
	e.voices[id.Index()] = v
	e.mu.Unlock()

	if old != nil {
		old.src.Close()
	}

	return true
}

// Window returns the frame range [from, to) of buf that p selects.
func Window(buf *audio.Buffer, p params.Params) (from, to int) {
	duration := buf.Seconds()
	return buf.FrameAt(p.Start * duration), buf.FrameAt(p.End * duration)
}

// build assembles the chain: buffer slice, rate conversion to the output
// rate, pitch, gain and pan.
func (e *Engine) build(id pad.ID, buf *audio.Buffer, p params.Params) *voice {
	from, to := Window(buf, p)

	var src audio.Source = buf.Source(from, to)
	if buf.SampleRate() != e.rate {
		src = audio.NewResampler(src, e.rate)
	}

	var s beep.Streamer = newSourceStreamer(src)
	if p.Pitch != 1 {
		s = beep.ResampleRatio(e.quality, p.Pitch, s)
	}
	s = &effects.Gain{Streamer: s, Gain: p.Volume - 1}
	s = &effects.Pan{Streamer: s, Pan: p.Pan}

	e.log.Debug("voice started",
		slog.String("pad", id.String()),
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Float64("volume", p.Volume),
		slog.Float64("pan", p.Pan),
		slog.Float64("pitch", p.Pitch),
	)

	return &voice{id: id, src: src, stream: s}
}

// Stop cuts the voice of id. It reports whether one was playing.
func (e *Engine) Stop(id pad.ID) bool {
	if !id.Valid() {
		return false
	}

	e.mu.Lock()
	v := e.voices[id.Index()]
	e.voices[id.Index()] = nil
	e.mu.Unlock()

	if v == nil {
		return false
	}
	v.src.Close()
	return true
}

// StopAll cuts every voice.
func (e *Engine) StopAll() {
	e.mu.Lock()
	voices := e.voices
	e.voices = [pad.Count]*voice{}
	e.mu.Unlock()

	for _, v := range voices {
		if v != nil {
			v.src.Close()
		}
	}
}

func (e *Engine) Playing(id pad.ID) bool {
	if !id.Valid() {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.voices[id.Index()] != nil
}

// Active lists the pads with a live voice, in pad order.
func (e *Engine) Active() []pad.ID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []pad.ID
	for _, v := range e.voices {
		if v != nil {
			out = append(out, v.id)
		}
	}
	return out
}

// Stream mixes every live voice into samples. It never drains: with no
// voices it produces silence.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	e.mu.Lock()
	voices := e.voices
	e.mu.Unlock()

	clear(samples)
	if cap(e.tmp) < len(samples) {
		e.tmp = make([][2]float64, len(samples))
	}
	tmp := e.tmp[:len(samples)]

	var ended []*voice
	for _, v := range voices {
		if v == nil {
			continue
		}

		filled := 0
		done := false
		for filled < len(tmp) {
			n, ok := v.stream.Stream(tmp[filled:])
			filled += n
			if !ok {
				done = true
				break
			}
			if n == 0 {
				break
			}
		}

		for i := range filled {
			samples[i][0] += tmp[i][0]
			samples[i][1] += tmp[i][1]
		}

		if done {
			ended = append(ended, v)
		}
	}

	if len(ended) > 0 {
		e.finish(ended)
	}

	return len(samples), true
}

// finish removes voices that ran out, unless they were replaced meanwhile.
func (e *Engine) finish(ended []*voice) {
	e.mu.Lock()
	var gone []pad.ID
	for _, v := range ended {
		if e.voices[v.id.Index()] == v {
			e.voices[v.id.Index()] = nil
			gone = append(gone, v.id)
		}
	}
	fn := e.onEnd
	e.mu.Unlock()

	for _, v := range ended {
		if err := v.stream.Err(); err != nil {
			e.log.Warn("voice stream failed", slog.String("pad", v.id.String()), slog.Any("error", err))
		}
		v.src.Close()
	}

	if fn == nil {
		return
	}
	for _, id := range gone {
		fn(id)
	}
}

func (e *Engine) Err() error {
	return nil
}

// Read fills p with whole frames of the mix as little-endian float32 pairs,
// clipped to [-1, 1].
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / FrameSize
	if frames == 0 {
		return 0, nil
	}

	if cap(e.mix) < frames {
		e.mix = make([][2]float64, frames)
	}
	mix := e.mix[:frames]
	e.Stream(mix)

	for i, f := range mix {
		l := float32(utils.Clamp(f[0], -1, 1))
		r := float32(utils.Clamp(f[1], -1, 1))
		binary.LittleEndian.PutUint32(p[i*FrameSize:], math.Float32bits(l))
		binary.LittleEndian.PutUint32(p[i*FrameSize+4:], math.Float32bits(r))
	}

	return frames * FrameSize, nil
}
