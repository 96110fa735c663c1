// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Resampler streams from src to a target sample rate using Catmull-Rom
// cubic interpolation over interleaved samples; channel count is preserved.
// A one-pole low-pass is applied to incoming frames when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames consumed per output frame
	channels int

	// window of four frames: t-1, t0, t+1, t+2
	win    [4][]float32
	filled [4]bool // slot holds a real source frame
	primed bool

	pos    float64 // fractional position between win[1] and win[2]
	srcBuf []float32
	eof    bool

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		srcBuf:   make([]float32, channels),
		lowpass:  ratio > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads one source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	for empty := 0; ; empty++ {
		n, err := r.src.ReadSamples(r.srcBuf)
		if n > 0 {
			copy(dst, r.srcBuf[:n])
			if err == io.EOF {
				r.eof = true
			}
			return true, nil
		}
		if err == io.EOF {
			r.eof = true
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w", err)
		}
		if empty > maxEmptyReads {
			return false, io.ErrNoProgress
		}
	}
}

func (r *Resampler) filter(frame []float32) {
	if !r.lowpass {
		return
	}
	for c := range frame {
		frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.state[c]
		r.state[c] = frame[c]
	}
}

// prime loads the first source frame into the t0 slot. Slots without a
// real frame hold a copy of their neighbour and are marked unfilled.
func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame(r.win[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	if r.lowpass {
		copy(r.state, r.win[1])
	}
	r.filter(r.win[1])
	r.filled[1] = true
	copy(r.win[0], r.win[1])

	for i := 2; i < len(r.win); i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resampler) fill(i int) error {
	ok, err := r.readFrame(r.win[i])
	if err != nil {
		return err
	}

	r.filled[i] = ok
	if ok {
		r.filter(r.win[i])
	} else {
		copy(r.win[i], r.win[i-1])
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	copy(r.filled[:], r.filled[1:])
	r.win[3] = first

	if err := r.fill(3); err != nil {
		return err
	}

	if !r.filled[1] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	wanted := len(dst) / r.channels

	for written < wanted {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written*r.channels+c] = cubic(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

// cubic is Catmull-Rom interpolation between y1 and y2 at x in [0, 1].
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*x+a1)*x+a2)*x + y1
}
