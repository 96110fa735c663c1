// SPDX-License-Identifier: EPL-2.0

package recorder

import "errors"

var (
	// ErrDevice reports an input device that is missing, busy or denied.
	ErrDevice           = errors.New("capture device unavailable")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrStarting         = errors.New("recording is still starting")
	ErrEmptyRecording   = errors.New("recording captured no audio")
)
