// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
// go-mp3 always produces 16-bit stereo, so every source has two channels
// regardless of the channel mode of the file; mono files come out with
// both channels equal.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // not a decodable MP3
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// Samples use the same asymmetric int16 scale as the wav package, so
// -32768 and 32767 map to exactly -1 and 1.
//
// Decoder implements audio.Sniffer: it matches an ID3v2 tag or an MPEG
// audio frame sync word at the start of the stream.
package mp3
