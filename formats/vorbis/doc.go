// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if errors.Is(err, vorbis.ErrNotVorbisFile) {
//	    // not Ogg Vorbis
//	}
//
// Vorbis decodes to float samples natively, so values are passed through
// unchanged apart from the [-1, 1] clamp oggvorbis applies. Channel count
// and sample rate come from the identification header.
//
// Decoder implements audio.Sniffer and matches the "OggS" page marker. Ogg
// containers carrying other codecs are claimed too and then fail in Decode.
package vorbis
