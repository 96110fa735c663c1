// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry.
package formats

import (
	"github.com/ik5/padsampler/audio"
	"github.com/ik5/padsampler/formats/aiff"
	"github.com/ik5/padsampler/formats/mp3"
	"github.com/ik5/padsampler/formats/vorbis"
	"github.com/ik5/padsampler/formats/wav"
)

// Register adds every bundled decoder to r. MP3 goes last because its
// frame-sync match is the loosest.
func Register(r *audio.Registry) {
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})
}

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	Register(r)
	return r
}
