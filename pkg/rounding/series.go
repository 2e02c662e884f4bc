package rounding

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Series identifies an IEC 60063 preferred-number series by its size.
type Series int

const (
	E1  Series = 1
	E3  Series = 3
	E6  Series = 6
	E12 Series = 12
	E24 Series = 24
	E48 Series = 48
	E96 Series = 96
)

// String returns the conventional series name, e.g. "E24".
func (s Series) String() string {
	return "E" + strconv.Itoa(int(s))
}

// Known reports whether s names one of the tabulated series.
func (s Series) Known() bool {
	_, ok := seriesTable[s]
	return ok
}

var (
	e3  = []float64{1, 2.2, 4.7}
	e6  = []float64{1, 1.5, 2.2, 3.3, 4.7, 6.8}
	e12 = []float64{1, 1.2, 1.5, 1.8, 2.2, 2.7, 3.3, 3.9, 4.7, 5.6, 6.8, 8.2}
	e24 = []float64{
		1, 1.1, 1.2, 1.3, 1.5, 1.6, 1.8, 2, 2.2, 2.4, 2.7, 3,
		3.3, 3.6, 3.9, 4.3, 4.7, 5.1, 5.6, 6.2, 6.8, 7.5, 8.2, 9.1,
	}
	e48 = []float64{
		1, 1.05, 1.1, 1.15, 1.21, 1.27, 1.33, 1.4, 1.47, 1.54, 1.62, 1.69,
		1.78, 1.87, 1.96, 2.05, 2.15, 2.26, 2.37, 2.49, 2.61, 2.74, 2.87, 3.01,
		3.16, 3.32, 3.48, 3.65, 3.83, 4.02, 4.22, 4.42, 4.64, 4.87, 5.11, 5.36,
		5.62, 5.90, 6.19, 6.49, 6.81, 7.15, 7.50, 7.87, 8.25, 8.66, 9.09, 9.53,
	}
	e96 = []float64{
		1, 1.02, 1.05, 1.07, 1.1, 1.13, 1.15, 1.18, 1.21, 1.24, 1.27, 1.3,
		1.33, 1.37, 1.4, 1.43, 1.47, 1.5, 1.54, 1.58, 1.62, 1.65, 1.69, 1.74,
		1.78, 1.82, 1.87, 1.91, 1.96, 2, 2.05, 2.1, 2.15, 2.21, 2.26, 2.32,
		2.37, 2.43, 2.49, 2.55, 2.61, 2.67, 2.74, 2.8, 2.87, 2.94, 3.01, 3.09,
		3.16, 3.24, 3.32, 3.4, 3.48, 3.57, 3.65, 3.74, 3.83, 3.92, 4.02, 4.12,
		4.22, 4.32, 4.42, 4.53, 4.64, 4.75, 4.87, 4.99, 5.11, 5.23, 5.36, 5.49,
		5.62, 5.76, 5.9, 6.04, 6.19, 6.34, 6.49, 6.65, 6.81, 6.98, 7.15, 7.32,
		7.5, 7.68, 7.87, 8.06, 8.25, 8.45, 8.66, 8.87, 9.09, 9.31, 9.53, 9.76,
	}
)

// seriesTable maps each series to its sorted, deduplicated mantissas.
// E48 and E96 are used together with E24 so the common 5% values stay
// reachable when the 1% series is selected.
var seriesTable = map[Series][]float64{
	E1:  {1},
	E3:  e3,
	E6:  e6,
	E12: e12,
	E24: e24,
	E48: union(e48, e24),
	E96: union(e96, e24),
}

// Mantissas returns the mantissas of s in ascending order. Unknown series
// fall back to E24. The returned slice is a copy.
func Mantissas(s Series) []float64 {
	return append([]float64(nil), mantissas(s)...)
}

func mantissas(s Series) []float64 {
	if values, ok := seriesTable[s]; ok {
		return values
	}
	return seriesTable[E24]
}

// ParseSeries accepts "E24", "e24" or "24".
func ParseSeries(name string) (Series, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "E")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("rounding: invalid series %q", name)
	}
	s := Series(n)
	if !s.Known() {
		return 0, fmt.Errorf("rounding: unknown series %q", name)
	}
	return s, nil
}

func union(sets ...[]float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, set := range sets {
		for _, v := range set {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
