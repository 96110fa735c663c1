// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files and
// exposes them as an audio.Source of float32 samples in [-1.0, 1.0].
// Integer PCM at 8, 16, 24 and 32 bits is supported; other sample sizes
// fail with ErrUnsupportedBitDepth.
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF file
//	}
//
// AIFF stores samples big-endian and the sample rate as an 80-bit float;
// go-audio handles both. The decoder needs to seek, so a reader that is not
// an io.ReadSeeker is buffered in memory first.
//
// Decoder implements audio.Sniffer and matches "FORM" containers of type
// AIFF or AIFC.
package aiff
