// SPDX-License-Identifier: EPL-2.0

package params

import "errors"

var ErrUnknownField = errors.New("unknown parameter field")
