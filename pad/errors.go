// SPDX-License-Identifier: EPL-2.0

package pad

import "errors"

var ErrUnknownPad = errors.New("unknown pad")
