// SPDX-License-Identifier: EPL-2.0

package audio

// Peak is the sample range of one waveform column.
type Peak struct {
	Min float32
	Max float32
}

// Peaks reduces buf to n columns of min/max values after mixing all
// channels down to mono. Columns cover ceil(frames/n) frames each; trailing
// columns past the end of a short buffer stay zero.
func Peaks(buf *Buffer, n int) []Peak {
	if n <= 0 {
		return nil
	}

	peaks := make([]Peak, n)
	frames := buf.Frames()
	step := max((frames+n-1)/n, 1)

	mono := NewMonoMixer(buf.Source(0, frames))
	defer mono.Close()

	chunk := make([]float32, 4096)
	frame := 0
	for {
		read, err := mono.ReadSamples(chunk)
		for _, v := range chunk[:read] {
			col := frame / step
			if col >= n {
				break
			}
			p := &peaks[col]
			if frame%step == 0 {
				p.Min, p.Max = v, v
			} else {
				p.Min = min(p.Min, v)
				p.Max = max(p.Max, v)
			}
			frame++
		}

		if err != nil || (read == 0 && frame >= frames) {
			break
		}
	}

	return peaks
}
