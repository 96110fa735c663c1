// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"errors"
	"io"

	"github.com/ik5/padsampler/audio"
)

// sourceStreamer adapts an audio.Source to a beep.Streamer. Mono is copied
// to both sides; beyond two channels only the first two are kept.
type sourceStreamer struct {
	src  audio.Source
	tmp  []float32
	done bool
	err  error
}

func newSourceStreamer(src audio.Source) *sourceStreamer {
	return &sourceStreamer{src: src}
}

func (s *sourceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.done {
		return 0, false
	}

	channels := s.src.Channels()
	if need := len(samples) * channels; cap(s.tmp) < need {
		s.tmp = make([]float32, need)
	}

	filled := 0
	for filled < len(samples) {
		dst := s.tmp[:(len(samples)-filled)*channels]
		n, err := s.src.ReadSamples(dst)

		frames := n / channels
		for f := range frames {
			l := float64(dst[f*channels])
			r := l
			if channels > 1 {
				r = float64(dst[f*channels+1])
			}
			samples[filled+f] = [2]float64{l, r}
		}
		filled += frames

		if errors.Is(err, io.EOF) {
			s.done = true
			break
		}
		if err != nil {
			s.err = err
			s.done = true
			break
		}
		if n == 0 {
			break
		}
	}

	if filled == 0 && s.done {
		return 0, false
	}
	return filled, true
}

func (s *sourceStreamer) Err() error {
	return s.err
}
