package rounding

import (
	"fmt"
	"math"
	"sort"
)

// decadeScalings is the number of decades (10^0 .. 10^7) each resistor of a
// divider may be scaled by.
const decadeScalings = 8

// DividerQuery describes a resistor-divider search.
type DividerQuery struct {
	VIn  float64 // Voltage across the whole divider
	VOut float64 // Target tap voltage
	IMin float64 // Minimum branch current
	IMax float64 // Maximum branch current

	Series     Series // Standard-value series for both resistors (default: E12)
	NumResults int    // Number of candidates to return (default: 10)

	// ImpliedVIn reports, for each candidate, the input voltage that would
	// produce exactly VOut at the tap instead of the tap voltage itself.
	// Use it when sizing a divider that senses a rail.
	ImpliedVIn bool
}

// DefaultDividerQuery returns a query with the E12 series and ten results.
// Voltages and currents still have to be filled in.
func DefaultDividerQuery() DividerQuery {
	return DividerQuery{
		Series:     E12,
		NumResults: 10,
	}
}

// Validate checks the query for values that make the search meaningless.
func (q DividerQuery) Validate() error {
	if q.NumResults < 1 {
		return fmt.Errorf("rounding: divider needs at least one result, got %d", q.NumResults)
	}
	if q.VOut == 0 {
		return fmt.Errorf("%w: divider target voltage is zero", ErrDomain)
	}
	if q.IMin > q.IMax {
		return fmt.Errorf("%w: divider current window [%g, %g] is empty", ErrDomain, q.IMin, q.IMax)
	}
	return nil
}

// Candidate is one resistor pair found by ResistorDivider.
type Candidate struct {
	Top      float64 `json:"top"`       // Upper resistor (Ω)
	Bottom   float64 `json:"bottom"`    // Lower resistor (Ω)
	Voltage  float64 `json:"voltage"`   // Tap voltage, or implied input voltage
	AbsError float64 `json:"abs_error"` // |VOut - tap voltage|
	RelError float64 `json:"rel_error"` // (VOut - tap voltage) / VOut
	Current  float64 `json:"current"`   // Branch current (A)
}

// Ratio returns the division ratio Bottom/(Top+Bottom).
func (c Candidate) Ratio() float64 {
	return c.Bottom / (c.Top + c.Bottom)
}

// ResistorDivider exhaustively searches standard-value resistor pairs whose
// branch current lies in [IMin, IMax] and returns the NumResults pairs
// closest to VOut, ordered by ascending absolute error.
//
// For every ordered mantissa pair only the decade scaling with the smallest
// error survives, so the results never repeat the same ratio at different
// magnitudes.
func ResistorDivider(q DividerQuery) ([]Candidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	values := mantissas(q.Series)
	var scales [decadeScalings]float64
	for i := range scales {
		scales[i] = math.Pow10(i)
	}

	results := make([]Candidate, 0, len(values)*len(values))
	for _, r1 := range values {
		for _, r2 := range values {
			if best, ok := bestScaling(q, r1, r2, scales[:]); ok {
				results = append(results, best)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AbsError < results[j].AbsError
	})
	if len(results) > q.NumResults {
		results = results[:q.NumResults]
	}
	return results, nil
}

// bestScaling evaluates every decade combination of one mantissa pair and
// keeps the first one with the smallest absolute error.
func bestScaling(q DividerQuery, r1, r2 float64, scales []float64) (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for _, st := range scales {
		for _, sb := range scales {
			rt, rb := r1*st, r2*sb
			total := rt + rb
			v := q.VIn * rb / total
			i := q.VIn / total
			if i < q.IMin || i > q.IMax {
				continue
			}

			absErr := math.Abs(q.VOut - v)
			if found && absErr >= best.AbsError {
				continue
			}

			reported := v
			if q.ImpliedVIn {
				reported = q.VOut * total / rb
			}
			best = Candidate{
				Top:      rt,
				Bottom:   rb,
				Voltage:  reported,
				AbsError: absErr,
				RelError: (q.VOut - v) / q.VOut,
				Current:  i,
			}
			found = true
		}
	}
	return best, found
}
