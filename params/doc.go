// SPDX-License-Identifier: EPL-2.0

// Package params stores the per-pad playback parameters: trim start and
// end, volume, pan and pitch.
//
// Every update is clamped to the field range and keeps Start < End by at
// least MinTrim, so readers never see an empty or inverted trim.
package params
