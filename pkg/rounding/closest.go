package rounding

import (
	"fmt"
	"math"
)

// Method selects which neighbour ClosestValue returns.
type Method int

const (
	// Nearest returns the closer neighbour; ties go to the lower value.
	Nearest Method = iota
	// Above returns the smallest standard value strictly greater than the input.
	Above
	// Below returns the largest standard value less than or equal to the input.
	Below
)

func (m Method) String() string {
	switch m {
	case Nearest:
		return "eq"
	case Above:
		return "gt"
	case Below:
		return "lt"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts "eq", "gt" and "lt". The empty string means Nearest.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "eq":
		return Nearest, nil
	case "gt":
		return Above, nil
	case "lt":
		return Below, nil
	}
	return Nearest, fmt.Errorf("rounding: unknown method %q (want eq, gt or lt)", s)
}

// minClosest is the smallest input ClosestValue accepts. Below it the decade
// scale is subnormal and the snapped value loses its magnitude.
const minClosest = 1e-307

// ClosestValue snaps v to the series s. v must be finite and at least 1e-307.
//
// When no mantissa of the decade exceeds v, the greater neighbour is the
// first value of the next decade.
func ClosestValue(v float64, s Series, m Method) (float64, error) {
	if !(v >= minClosest) || math.IsInf(v, 1) {
		return 0, fmt.Errorf("%w: closest value of %g", ErrDomain, v)
	}

	p := decade(v)
	scale := math.Pow10(p)
	x := v / scale

	// Sentinels match the largest possible distance inside a decade.
	bestPos, diffPos := 10.0, 10.0-x
	bestNeg, diffNeg := 0.0, 100.0
	for _, y := range mantissas(s) {
		d := math.Abs(y - x)
		if y > x && d < diffPos {
			bestPos, diffPos = y, d
		}
		if y <= x && d < diffNeg {
			bestNeg, diffNeg = y, d
		}
	}

	var best float64
	switch m {
	case Above:
		best = bestPos
	case Below:
		best = bestNeg
	default:
		if diffPos < diffNeg {
			best = bestPos
		} else {
			best = bestNeg
		}
	}
	return best * scale, nil
}
