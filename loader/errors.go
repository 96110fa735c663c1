// SPDX-License-Identifier: EPL-2.0

package loader

import "errors"

var (
	// ErrNetwork reports a failure to open or read a sound's byte stream.
	ErrNetwork = errors.New("network error")
	// ErrDecode reports bytes that no decoder could turn into audio.
	ErrDecode = errors.New("decode error")

	ErrUnsupportedScheme = errors.New("unsupported locator scheme")
)
