// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/bank"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
)

func constant(t *testing.T, rate, frames int, v float32) *audio.Buffer {
	t.Helper()

	ch := make([]float32, frames)
	for i := range ch {
		ch[i] = v
	}
	buf, err := audio.NewBuffer(rate, [][]float32{ch})
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func ramp(t *testing.T, rate, frames int) *audio.Buffer {
	t.Helper()

	ch := make([]float32, frames)
	for i := range ch {
		ch[i] = float32(i+1) / float32(frames)
	}
	buf, err := audio.NewBuffer(rate, [][]float32{ch})
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func newEngine(rate int) (*Engine, *bank.Bank, *params.Store) {
	b := bank.New()
	p := params.NewStore()
	return New(b, p, Options{SampleRate: rate}), b, p
}

// audible counts the frames whose left or right channel exceeds threshold.
func audible(samples [][2]float64, threshold float64) int {
	n := 0
	for _, s := range samples {
		if math.Abs(s[0]) > threshold || math.Abs(s[1]) > threshold {
			n++
		}
	}
	return n
}

func TestWindow(t *testing.T) {
	t.Parallel()

	buf := ramp(t, 1000, 2000)

	tests := []struct {
		start, end float64
		from, to   int
	}{
		{0, 1, 0, 2000},
		{0.25, 0.75, 500, 1500},
		{0.5, 0.51, 1000, 1020},
		{0.99, 1, 1980, 2000},
	}

	for _, tt := range tests {
		p := params.Default()
		p.Start, p.End = tt.start, tt.end

		from, to := Window(buf, p)
		if from != tt.from || to != tt.to {
			t.Errorf("Window(%v, %v) = [%d, %d), want [%d, %d)", tt.start, tt.end, from, to, tt.from, tt.to)
		}
	}
}

func TestEngine_PlaysTrimmedSlice(t *testing.T) {
	t.Parallel()

	e, b, p := newEngine(1000)
	buf := ramp(t, 1000, 2000) // 2 s
	b.Put(pad.Pad1, buf)
	p.Set(pad.Pad1, params.End, 0.75)
	p.Set(pad.Pad1, params.Start, 0.25)

	var ended []pad.ID
	e.OnEnd(func(id pad.ID) { ended = append(ended, id) })

	if !e.Trigger(pad.Pad1) {
		t.Fatal("Trigger() = false for a loaded pad")
	}

	out := make([][2]float64, 2000)
	if n, ok := e.Stream(out); n != len(out) || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}

	// [0.5 s, 1.5 s) of the source, then silence.
	src := buf.Channel(0)
	for i := range 1000 {
		want := float64(src[500+i])
		if out[i][0] != want || out[i][1] != want {
			t.Fatalf("frame %d = %v, want %v", i, out[i], want)
		}
	}
	if n := audible(out[1000:], 0); n != 0 {
		t.Errorf("%d frames after the slice end are not silent", n)
	}

	if e.Playing(pad.Pad1) {
		t.Error("voice still active after its slice ended")
	}
	if !slices.Equal(ended, []pad.ID{pad.Pad1}) {
		t.Errorf("OnEnd calls = %v, want [pad1]", ended)
	}
}

func TestEngine_RetriggerReplacesVoice(t *testing.T) {
	t.Parallel()

	e, b, _ := newEngine(1000)
	b.Put(pad.Pad2, constant(t, 1000, 1000, 0.5))

	var ended int
	e.OnEnd(func(pad.ID) { ended++ })

	e.Trigger(pad.Pad2)
	out := make([][2]float64, 100)
	e.Stream(out)
	e.Trigger(pad.Pad2)

	if got := e.Active(); !slices.Equal(got, []pad.ID{pad.Pad2}) {
		t.Fatalf("Active() = %v, want [pad2]", got)
	}

	e.Stream(out)
	for i, s := range out {
		if s[0] != 0.5 {
			t.Fatalf("frame %d = %v, want a single voice at 0.5", i, s)
		}
	}

	// The restarted voice plays the full 1000 frames.
	rest := make([][2]float64, 1000)
	e.Stream(rest)
	if n := audible(rest, 0.25); n != 900 {
		t.Errorf("restarted voice played %d more frames, want 900", n)
	}
	if ended != 1 {
		t.Errorf("OnEnd called %d times, want 1", ended)
	}
}

func TestEngine_StopAndUnloadedPads(t *testing.T) {
	t.Parallel()

	e, b, _ := newEngine(1000)
	b.Put(pad.Pad1, constant(t, 1000, 1000, 0.5))
	b.Put(pad.Pad5, constant(t, 1000, 1000, 0.25))

	if e.Trigger(pad.Pad3) {
		t.Error("Trigger() = true for an empty pad")
	}
	if e.Trigger(pad.None) {
		t.Error("Trigger() = true for pad.None")
	}
	if e.Stop(pad.Pad3) {
		t.Error("Stop() = true for a silent pad")
	}

	e.Trigger(pad.Pad1)
	e.Trigger(pad.Pad5)
	if got := e.Active(); !slices.Equal(got, []pad.ID{pad.Pad1, pad.Pad5}) {
		t.Fatalf("Active() = %v", got)
	}

	out := make([][2]float64, 10)
	e.Stream(out)
	if math.Abs(out[0][0]-0.75) > 1e-9 {
		t.Errorf("mix = %v, want 0.75", out[0][0])
	}

	if !e.Stop(pad.Pad1) || e.Stop(pad.Pad1) {
		t.Error("Stop() is not idempotent")
	}
	e.Stream(out)
	if math.Abs(out[0][0]-0.25) > 1e-9 {
		t.Errorf("mix after stop = %v, want 0.25", out[0][0])
	}

	e.StopAll()
	if len(e.Active()) != 0 {
		t.Error("StopAll() left voices")
	}
	e.Stream(out)
	if audible(out, 0) != 0 {
		t.Error("engine not silent after StopAll()")
	}
}

func TestEngine_GainAndPan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		volume, pan float64
		left, right float64
	}{
		{"unity", 1, 0, 0.5, 0.5},
		{"boost", 1.5, 0, 0.75, 0.75},
		{"mute", 0, 0, 0, 0},
		{"hard left", 1, -1, -1, 0},
		{"hard right", 1, 1, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, b, p := newEngine(1000)
			b.Put(pad.Pad1, constant(t, 1000, 100, 0.5))
			p.Set(pad.Pad1, params.Volume, tt.volume)
			p.Set(pad.Pad1, params.Pan, tt.pan)
			e.Trigger(pad.Pad1)

			out := make([][2]float64, 10)
			e.Stream(out)

			// A negative expectation means "audible", whatever the pan law.
			check := func(side string, got, want float64) {
				if want < 0 {
					if got <= 0 {
						t.Errorf("%s = %v, want audible", side, got)
					}
					return
				}
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", side, got, want)
				}
			}
			check("left", out[5][0], tt.left)
			check("right", out[5][1], tt.right)
		})
	}
}

func TestEngine_PitchChangesLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pitch float64
		want  int
	}{
		{1, 1000},
		{2, 500},
		{0.5, 2000},
	}

	for _, tt := range tests {
		e, b, p := newEngine(1000)
		b.Put(pad.Pad1, constant(t, 1000, 1000, 0.5))
		p.Set(pad.Pad1, params.Pitch, tt.pitch)
		e.Trigger(pad.Pad1)

		out := make([][2]float64, 3000)
		e.Stream(out)

		if got := audible(out, 0.25); math.Abs(float64(got-tt.want)) > 50 {
			t.Errorf("pitch %v played %d frames, want about %d", tt.pitch, got, tt.want)
		}
	}
}

func TestEngine_ConvertsSampleRate(t *testing.T) {
	t.Parallel()

	e, b, _ := newEngine(1000)
	b.Put(pad.Pad1, constant(t, 500, 1000, 0.5)) // 2 s
	e.Trigger(pad.Pad1)

	out := make([][2]float64, 3000)
	e.Stream(out)

	if got := audible(out, 0.25); got < 1990 || got > 2010 {
		t.Errorf("played %d frames, want about 2000", got)
	}
}

func TestEngine_Read(t *testing.T) {
	t.Parallel()

	e, b, p := newEngine(1000)
	b.Put(pad.Pad1, constant(t, 1000, 100, 1))
	p.Set(pad.Pad1, params.Volume, 1.5)

	p8 := make([]byte, 8*10+3)
	n, err := e.Read(p8)
	if err != nil || n != 80 {
		t.Fatalf("Read() = %d, %v, want 80", n, err)
	}
	for i := range 20 {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(p8[i*4:])); v != 0 {
			t.Fatalf("silent engine produced %v", v)
		}
	}

	e.Trigger(pad.Pad1)
	if n, _ := e.Read(p8); n != 80 {
		t.Fatalf("Read() = %d", n)
	}
	for i := range 20 {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(p8[i*4:])); v != 1 {
			t.Fatalf("sample %d = %v, want clipped to 1", i, v)
		}
	}

	if n, err := e.Read(make([]byte, 7)); n != 0 || err != nil {
		t.Errorf("Read(short) = %d, %v", n, err)
	}
}

func TestEngine_ConcurrentTriggers(t *testing.T) {
	t.Parallel()

	e, b, _ := newEngine(1000)
	for _, id := range pad.All() {
		b.Put(id, constant(t, 1000, 50, 0.1))
	}

	var wg sync.WaitGroup
	for _, id := range pad.All() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				e.Trigger(id)
			}
		}()
	}

	out := make([]byte, 8*64)
	for range 100 {
		e.Read(out)
	}
	wg.Wait()

	if n := len(e.Active()); n > pad.Count {
		t.Errorf("%d voices active", n)
	}
}

func TestEngine_Format(t *testing.T) {
	t.Parallel()

	e := New(bank.New(), params.NewStore(), Options{})
	if e.SampleRate() != 44100 || int(e.Format().SampleRate) != 44100 || e.Format().NumChannels != 2 {
		t.Errorf("defaults = %d Hz, %+v", e.SampleRate(), e.Format())
	}
	if e.Err() != nil {
		t.Error("Err() != nil")
	}
}
