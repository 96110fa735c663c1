// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Buffer is decoded audio held in memory: one float32 slice per channel,
// all of the same length. A Buffer is not modified after construction, so it
// may be shared between the registry and any number of playing voices.
type Buffer struct {
	sampleRate int
	data       [][]float32
}

// NewBuffer wraps per-channel sample slices. The slices are owned by the
// Buffer from this point on.
func NewBuffer(sampleRate int, data [][]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidBuffer, sampleRate)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidBuffer)
	}

	frames := len(data[0])
	for c, ch := range data[1:] {
		if len(ch) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidBuffer, c+1, len(ch), frames)
		}
	}

	return &Buffer{sampleRate: sampleRate, data: data}, nil
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return len(b.data) }
func (b *Buffer) Frames() int     { return len(b.data[0]) }

// Seconds is the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Channel returns the samples of channel c. Callers must not modify them.
func (b *Buffer) Channel(c int) []float32 {
	return b.data[c]
}

// FrameAt converts a time offset in seconds to the nearest frame index,
// clamped to [0, Frames()].
func (b *Buffer) FrameAt(seconds float64) int {
	f := int(math.Round(seconds * float64(b.sampleRate)))
	return min(max(f, 0), b.Frames())
}

// Source returns an interleaved Source over frames [from, to).
func (b *Buffer) Source(from, to int) Source {
	to = min(max(to, 0), b.Frames())
	from = min(max(from, 0), to)

	return &bufferSource{buf: b, pos: from, end: to}
}

type bufferSource struct {
	buf *Buffer
	pos int
	end int
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return len(s.buf.data) }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.buf.data)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := min(len(dst)/channels, s.end-s.pos)
	if frames == 0 {
		if s.pos >= s.end {
			return 0, io.EOF
		}
		return 0, nil
	}

	for f := range frames {
		for c, ch := range s.buf.data {
			dst[f*channels+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	return frames * channels, nil
}

// maxEmptyReads bounds how many consecutive (0, nil) reads ReadAll tolerates.
const maxEmptyReads = 64

// ReadAll drains src into a Buffer. It does not close src.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidBuffer, channels)
	}

	data := make([][]float32, channels)
	tmp := make([]float32, 4096*channels)
	empty := 0

	for {
		n, err := src.ReadSamples(tmp)
		frames := n / channels
		for f := range frames {
			for c := range channels {
				data[c] = append(data[c], tmp[f*channels+c])
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty > maxEmptyReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	if len(data[0]) == 0 {
		return nil, ErrEmptyStream
	}

	return NewBuffer(src.SampleRate(), data)
}
