// SPDX-License-Identifier: EPL-2.0

// Package output plays a float32 stereo stream on the default audio
// device. Builds tagged headless replace the device with a clock that
// consumes the stream in real time and discards it.
package output

import "errors"

// Channels of every stream handed to Play.
const Channels = 2

var ErrClosed = errors.New("output closed")
