// SPDX-License-Identifier: EPL-2.0

// Package pad defines the nine pad identifiers and their fixed bindings.
//
// Pads are laid out as a 3×3 grid numbered like a numeric keypad:
//
//	pad7 pad8 pad9
//	pad4 pad5 pad6
//	pad1 pad2 pad3
//
// Each pad has one keyboard key (bottom row z x c, middle a s d, top q w e)
// and one MIDI note, counted up from note 36 (C1, the usual first drum pad
// of a controller).
package pad
