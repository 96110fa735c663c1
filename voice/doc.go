// SPDX-License-Identifier: EPL-2.0

// Package voice plays pads.
//
// Every Trigger builds a fresh chain from the pad's buffer and its current
// parameters:
//
//	buffer[start:end] -> rate conversion -> pitch -> gain -> pan
//
// Rate conversion to the output rate uses audio.Resampler and only happens
// when the buffer rate differs. Pitch, gain and pan are beep streamers
// (beep.ResampleRatio, effects.Gain, effects.Pan).
//
// The Engine mixes all live voices. Pull the mix either as a beep.Streamer
// or through Read, which yields interleaved little-endian float32 stereo
// frames ready for an output device.
package voice
