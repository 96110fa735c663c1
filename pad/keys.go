// SPDX-License-Identifier: EPL-2.0

package pad

import "strings"

var keys = [Count]string{"z", "x", "c", "a", "s", "d", "q", "w", "e"}

// FromKey maps a key name to its pad, ignoring case. Anything that is not
// one of the nine bound keys is reported as not found.
func FromKey(key string) (ID, bool) {
	key = strings.ToLower(key)
	for i, k := range keys {
		if k == key {
			return ID(i + 1), true
		}
	}
	return None, false
}

// Key returns the keyboard key bound to id.
func (id ID) Key() string {
	if !id.Valid() {
		return ""
	}
	return keys[id.Index()]
}
