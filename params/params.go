// SPDX-License-Identifier: EPL-2.0

package params

import (
	"fmt"
	"math"

	"github.com/ik5/padsampler/utils"
)

// Field selects one pad parameter.
type Field int

const (
	Start Field = iota
	End
	Volume
	Pan
	Pitch
)

var fieldNames = [...]string{"start", "end", "volume", "pan", "pitch"}

var ranges = [...][2]float64{
	Start:  {0, 1},
	End:    {0, 1},
	Volume: {0, 1.5},
	Pan:    {-1, 1},
	Pitch:  {0.5, 2},
}

// MinTrim is the smallest gap kept between Start and End.
const MinTrim = 0.01

func (f Field) String() string {
	if f < Start || f > Pitch {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Range returns the inclusive bounds of f.
func (f Field) Range() (lo, hi float64) {
	r := ranges[f]
	return r[0], r[1]
}

// ParseField maps a field name ("start", "end", "volume", "pan", "pitch").
func ParseField(s string) (Field, error) {
	for i, name := range fieldNames {
		if name == s {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Params is the playback setup of one pad. Start and End are fractions of
// the buffer length.
type Params struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`
	Pitch  float64 `json:"pitch"`
}

// Default is the setup of a pad nobody has touched: whole buffer, unity
// gain, centered, original pitch.
func Default() Params {
	return Params{Start: 0, End: 1, Volume: 1, Pan: 0, Pitch: 1}
}

func (p Params) Get(f Field) float64 {
	switch f {
	case Start:
		return p.Start
	case End:
		return p.End
	case Volume:
		return p.Volume
	case Pan:
		return p.Pan
	case Pitch:
		return p.Pitch
	}
	return math.NaN()
}

// With returns p with f set to v, clamped to the field range. Moving one
// trim bound onto or past the other pushes the other one away by MinTrim;
// when that would leave [0, 1] the moved bound gives way instead.
func (p Params) With(f Field, v float64) Params {
	if f < Start || f > Pitch || math.IsNaN(v) {
		return p
	}
	v = utils.Clamp(v, ranges[f][0], ranges[f][1])

	switch f {
	case Start:
		p.Start = v
		if p.Start >= p.End {
			p.End = math.Min(1, p.Start+MinTrim)
			if p.Start >= p.End {
				p.Start = p.End - MinTrim
			}
		}
	case End:
		p.End = v
		if p.End <= p.Start {
			p.Start = math.Max(0, p.End-MinTrim)
			if p.End <= p.Start {
				p.End = p.Start + MinTrim
			}
		}
	case Volume:
		p.Volume = v
	case Pan:
		p.Pan = v
	case Pitch:
		p.Pitch = v
	}

	return p
}
