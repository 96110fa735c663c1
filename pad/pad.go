// SPDX-License-Identifier: EPL-2.0

package pad

import (
	"fmt"
	"strconv"
	"strings"
)

// ID names one of the nine pads. The zero value is not a pad.
type ID int

const (
	Pad1 ID = iota + 1
	Pad2
	Pad3
	Pad4
	Pad5
	Pad6
	Pad7
	Pad8
	Pad9
)

// Count is the number of pads.
const Count = 9

// None is the zero ID, used where no pad is selected.
const None ID = 0

const prefix = "pad"

// All returns every pad in numeric order.
func All() []ID {
	return []ID{Pad1, Pad2, Pad3, Pad4, Pad5, Pad6, Pad7, Pad8, Pad9}
}

func (id ID) Valid() bool {
	return id >= Pad1 && id <= Pad9
}

// Index is the zero-based slot of id, for array-backed per-pad state.
func (id ID) Index() int {
	return int(id) - 1
}

// FromIndex is the inverse of Index.
func FromIndex(i int) (ID, bool) {
	id := ID(i + 1)
	return id, id.Valid()
}

func (id ID) String() string {
	if !id.Valid() {
		return "pad(" + strconv.Itoa(int(id)) + ")"
	}
	return prefix + strconv.Itoa(int(id))
}

// Parse accepts the canonical "padN" form.
func Parse(s string) (ID, error) {
	n, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownPad, s)
	}

	v, err := strconv.Atoi(n)
	if err != nil || !ID(v).Valid() {
		return None, fmt.Errorf("%w: %q", ErrUnknownPad, s)
	}

	return ID(v), nil
}

func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPad, int(id))
	}
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Grid is the display layout, top row first.
var Grid = [3][3]ID{
	{Pad7, Pad8, Pad9},
	{Pad4, Pad5, Pad6},
	{Pad1, Pad2, Pad3},
}

// Position returns the grid row (0 = top) and column of id.
func (id ID) Position() (row, col int) {
	i := id.Index()
	return 2 - i/3, i % 3
}
