// SPDX-License-Identifier: EPL-2.0

package pad

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// BaseNote is the MIDI note bound to Pad1; the other pads follow upward.
const BaseNote = 36

// FromNote maps notes BaseNote..BaseNote+8 to pads.
func FromNote(note uint8) (ID, bool) {
	if note < BaseNote || note >= BaseNote+Count {
		return None, false
	}
	return ID(note-BaseNote) + Pad1, true
}

// Note returns the MIDI note bound to id.
func (id ID) Note() uint8 {
	return uint8(BaseNote + id.Index())
}

// FromMIDI resolves a raw three-byte message to a pad. Only note-on with a
// non-zero velocity counts, on any channel.
func FromMIDI(msg []byte) (ID, bool) {
	if len(msg) != 3 {
		return None, false
	}

	var channel, key, velocity uint8
	if !midi.Message(msg).GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return None, false
	}

	return FromNote(key)
}

// ListenMIDI calls fn with the pad of every mapped note-on arriving on in.
// The returned stop function ends the listener.
func ListenMIDI(in drivers.In, fn func(ID)) (stop func(), err error) {
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if id, ok := FromMIDI(msg); ok {
			fn(id)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", in, err)
	}

	return stop, nil
}
