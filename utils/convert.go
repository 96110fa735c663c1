// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 converts a normalized sample to signed 16-bit PCM.
//
// The input is clamped to [-1, 1]. Negative values are scaled by 32768 and
// non-negative values by 32767, so both ends land exactly on the int16 limits.
// The fractional part is truncated toward zero. NaN maps to 0.
func Float32ToInt16(x float32) int16 {
	if math.IsNaN(float64(x)) {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * 32768.0)
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16: negative values are divided
// by 32768 and non-negative values by 32767, mapping the int16 limits back to
// exactly -1 and 1.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / 32768.0
	}

	return float32(v) / 32767.0
}
