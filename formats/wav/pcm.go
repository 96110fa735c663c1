// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/utils"
)

// DecodePCM16LE turns headerless interleaved signed 16-bit little-endian
// samples into a Buffer. A trailing partial frame is dropped.
func DecodePCM16LE(data []byte, sampleRate, channels int) (*audio.Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidPCMFormat, sampleRate, channels)
	}

	frames := len(data) / (2 * channels)
	if frames == 0 {
		return nil, audio.ErrEmptyStream
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	for f := range frames {
		for c := range channels {
			off := 2 * (f*channels + c)
			out[c][f] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(data[off:])))
		}
	}

	return audio.NewBuffer(sampleRate, out)
}
