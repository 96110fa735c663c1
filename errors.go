// SPDX-License-Identifier: EPL-2.0

package padsampler

import "errors"

var (
	ErrNoPresetSource = errors.New("no preset source configured")
	ErrNoPresets      = errors.New("preset source is empty")
)
