// SPDX-License-Identifier: EPL-2.0

// Package loader fetches sounds and fills the pad bank.
//
// # Loading one sound
//
// Loader.Load yields a lazy sequence of Updates for one locator: progress
// while bytes arrive, DecodingProgress once the stream is complete, and a
// final Update holding either the decoded Buffer or an error.
//
//	for u := range l.Load(ctx, "kick.wav") {
//	    if u.Done() {
//	        buf, err = u.Buffer, u.Err
//	    }
//	}
//
// When the stream length is known progress is bytesRead/total. Otherwise a
// single IndeterminateProgress value is reported.
//
// # Loading a preset
//
// Coordinator.LoadPreset runs one Loader per sound, concurrently, under a
// new generation token. A newer LoadPreset makes every update of the older
// generation invisible: it is neither written to the bank nor reported to
// listeners, and the stale fetch stops at its next update.
//
// # Locators
//
// Openers resolve locators to byte streams. FileOpener reads local paths
// and Mux dispatches on the URL scheme, so an HTTP opener can be added
// with Handle("https", ...).
package loader
