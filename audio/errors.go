// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("unknown audio format")
	ErrInvalidBuffer  = errors.New("invalid sound buffer")
	ErrEmptyStream    = errors.New("stream contains no audio frames")
)
