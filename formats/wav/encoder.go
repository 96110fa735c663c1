// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/utils"
)

// HeaderSize is the length of the canonical header written before the samples.
const HeaderSize = 44

// frames converted per Write in WriteBuffer
const chunkFrames = 8192

// DataSize is the payload length, in bytes, of buf encoded as 16-bit PCM.
func DataSize(buf *audio.Buffer) int {
	return buf.Frames() * buf.Channels() * 2
}

func putHeader(header []byte, sampleRate, channels, dataSize int) {
	byteRate := uint32(sampleRate) * uint32(channels) * 2
	blockAlign := uint16(channels) * 2

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], 16)

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
}

// putFrames writes frames [from, to) of buf as interleaved int16 LE into dst.
func putFrames(dst []byte, buf *audio.Buffer, from, to int) {
	channels := buf.Channels()
	i := 0
	for f := from; f < to; f++ {
		for c := range channels {
			s := utils.Float32ToInt16(buf.Channel(c)[f])
			binary.LittleEndian.PutUint16(dst[i:], uint16(s))
			i += 2
		}
	}
}

// Encode serializes buf as a canonical 16-bit PCM WAV file: the 44-byte
// header followed by frame-interleaved little-endian samples.
func Encode(buf *audio.Buffer) []byte {
	dataSize := DataSize(buf)
	out := make([]byte, HeaderSize+dataSize)

	putHeader(out[:HeaderSize], buf.SampleRate(), buf.Channels(), dataSize)
	putFrames(out[HeaderSize:], buf, 0, buf.Frames())

	return out
}

// WriteBuffer streams the same bytes as Encode to w without holding the
// whole payload in memory.
func WriteBuffer(w io.Writer, buf *audio.Buffer) error {
	header := make([]byte, HeaderSize)
	putHeader(header, buf.SampleRate(), buf.Channels(), DataSize(buf))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	frames := buf.Frames()
	if frames == 0 {
		return nil
	}

	chunk := make([]byte, min(frames, chunkFrames)*buf.Channels()*2)
	for from := 0; from < frames; from += chunkFrames {
		to := min(from+chunkFrames, frames)
		n := (to - from) * buf.Channels() * 2

		putFrames(chunk[:n], buf, from, to)
		if _, err := w.Write(chunk[:n]); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
