// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and the canonical 16-bit PCM encoder.
//
// # Decoding
//
// Decoder parses RIFF/WAVE containers with github.com/go-audio/wav and
// yields an audio.Source of float32 samples in [-1, 1]. Integer PCM at 8,
// 16, 24 and 32 bits is accepted, with any extra chunks around "fmt " and
// "data". Decoder implements audio.Sniffer so a registry can pick it from
// the first bytes of a stream:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not ours
//	}
//
// DecodePCM16LE decodes headerless interleaved 16-bit little-endian data,
// which is what capture devices hand out.
//
// # Encoding
//
// Encode serializes an audio.Buffer into a byte-exact canonical file:
//
//	offset  field
//	0       "RIFF", 36 + dataSize
//	8       "WAVE"
//	12      "fmt ", 16, format 1, channels, sample rate,
//	        byte rate (rate × channels × 2), block align (channels × 2), 16 bits
//	36      "data", frames × channels × 2
//	44      interleaved samples, frame by frame
//
// Samples are clamped to [-1, 1], then negative values are scaled by 32768
// and non-negative values by 32767 with truncation toward zero. Decoding
// reverses the same asymmetric scale, so the int16 limits map back to
// exactly -1 and 1.
//
// WriteBuffer produces the same bytes as Encode while writing in chunks.
package wav
