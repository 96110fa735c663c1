// SPDX-License-Identifier: EPL-2.0

// Package capture opens the default microphone as a recorder.Device. The
// stream is signed 16-bit little-endian PCM. Builds tagged headless have
// no input device and every Start fails with ErrNoDevice.
package capture

import "errors"

var (
	ErrNoDevice = errors.New("no capture device")
	ErrStarted  = errors.New("capture already started")
)
