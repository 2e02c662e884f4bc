package rounding

import (
	"errors"
	"math"
	"strconv"
)

var (
	// ErrDomain reports an input outside the mathematical domain of a helper,
	// e.g. a non-positive value passed to a logarithm.
	ErrDomain = errors.New("rounding: value outside domain")

	// ErrPrecision reports a non-positive significant-figure count.
	ErrPrecision = errors.New("rounding: precision must be positive")
)

// prefixTable holds the SI prefix letters. Index 0 is the unit itself,
// positive indices scale up and negative indices wrap from the end.
var prefixTable = []rune(" kMGTPEZYyzafpnµm")

const maxPrefixExponent = 24

// SigFigs rounds x to precision significant decimal digits. Halfway cases
// round to even on the exact binary value of x.
func SigFigs(x float64, precision int) (float64, error) {
	if precision < 1 {
		return 0, ErrPrecision
	}
	if x == 0 {
		return 0, nil
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x, nil
	}

	// The 'e' verb rounds correctly to precision-1 digits after the point.
	s := strconv.FormatFloat(x, 'e', precision-1, 64)
	return strconv.ParseFloat(s, 64)
}

// Sign returns -value for negative x and value otherwise.
func Sign(x, value float64) float64 {
	if x < 0 {
		return -value
	}
	return value
}

// Prefix formats x as a coefficient in [1, 1000) followed by its SI prefix
// letter, e.g. 2.5e-6 -> "2.5µ" and 1000 -> "1k".
func Prefix(x float64) string {
	return PrefixDim(x, 1)
}

// PrefixDim is Prefix for quantities of higher dimension. A dimension of 2
// (areas) steps the prefix every six decades instead of three.
func PrefixDim(x float64, dimension int) string {
	if x == 0 {
		return "0"
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return formatG(x)
	}
	if dimension < 1 {
		dimension = 1
	}

	l := decade(math.Abs(x))
	if l > maxPrefixExponent || l < -maxPrefixExponent {
		l = int(Sign(float64(l), maxPrefixExponent))
	}

	div, mod := floorDivMod(l, 3*dimension)
	coeff := formatG(x * math.Pow10(-l+mod))
	if div == 0 {
		return coeff
	}

	idx := div
	if idx < 0 {
		idx += len(prefixTable)
	}
	if idx < 0 || idx >= len(prefixTable) {
		// Only reachable with dimension > 1 and a clamped exponent.
		return coeff
	}
	return coeff + string(prefixTable[idx])
}

// decade returns floor(log10(x)) for finite x > 0. math.Log10 is off by one ulp for
// several exact powers of ten, so the estimate is corrected against Pow10.
func decade(x float64) int {
	e := int(math.Floor(math.Log10(x)))
	if x >= math.Pow10(e+1) {
		e++
	} else if x < math.Pow10(e) {
		e--
	}
	return e
}

// floorDivMod is integer division rounding toward negative infinity, with a
// remainder carrying the sign of the divisor.
func floorDivMod(a, b int) (int, int) {
	div, mod := a/b, a%b
	if mod != 0 && (mod < 0) != (b < 0) {
		div--
		mod += b
	}
	return div, mod
}

func formatG(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
