// SPDX-License-Identifier: EPL-2.0

package padsampler

import (
	"github.com/ik5/padsampler/loader"
	"github.com/ik5/padsampler/pad"
	"github.com/ik5/padsampler/params"
)

// EventKind tells which part of a pad changed.
type EventKind int

const (
	// LoadChanged carries the new load state of Pad.
	LoadChanged EventKind = iota
	// ParamsChanged carries the new parameters of Pad.
	ParamsChanged
	// BufferChanged reports that Pad holds a different buffer, or none.
	BufferChanged
	// SelectionChanged reports the newly selected Pad.
	SelectionChanged
	// VoiceEnded reports that Pad finished playing on its own.
	VoiceEnded
)

func (k EventKind) String() string {
	switch k {
	case LoadChanged:
		return "load"
	case ParamsChanged:
		return "params"
	case BufferChanged:
		return "buffer"
	case SelectionChanged:
		return "selection"
	case VoiceEnded:
		return "voice-ended"
	}
	return "unknown"
}

// Event is a state change notification for a view layer.
type Event struct {
	Kind EventKind
	Pad  pad.ID

	// Set for LoadChanged.
	Generation uint64
	Load       loader.State

	// Set for ParamsChanged.
	Params params.Params
}
