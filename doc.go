// SPDX-License-Identifier: EPL-2.0

// Package padsampler is a nine-pad sample player.
//
// A Sampler binds a preset of up to nine sounds to pads laid out as a
// 3x3 grid. Each pad carries its own playback parameters (volume, pan,
// pitch and a start/end trim window) and at most one playing voice.
// Hitting a pad that is already playing restarts it from the trim start.
//
// # Loading
//
// Presets come from a preset.Source: the remote HTTP service in
// presetapi or a local directory in presetstore. Loading a preset clears
// every pad and fetches the referenced sounds concurrently:
//
//	run, err := s.LoadPreset(ctx, id)
//	if err != nil {
//		return err
//	}
//	run.Wait()
//
// Each pad reports its own progress and outcome through LoadState and
// LoadChanged events. A failing sound never affects the other pads. When
// a new preset load starts while an older one is in flight, results of
// the older load are discarded.
//
// # Playback
//
// The mixed output is exposed as an io.Reader of little-endian float32
// stereo frames at SampleRate, ready to hand to internal/output or any
// player that consumes raw PCM:
//
//	dev.Play(s.Audio())
//
// Pads are hit by ID (Press, Trigger), by keyboard key (PressKey) or by
// MIDI note-on (PressMIDI, ListenMIDI). See package pad for the bindings.
//
// # Recording and export
//
// StartRecording and StopRecording capture the microphone into the
// selected pad. Export encodes every loaded pad as 16-bit PCM WAV and
// uploads the set as a new preset.
//
// # Supported Formats
//
// Sounds are decoded by content, not by name:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
package padsampler
