// Package rounding provides the numeric helpers used to present converter
// design results and to snap them to manufacturable component values.
//
// # Overview
//
// The package covers three concerns:
//   - Scalar primitives: SigFigs, Sign and Prefix (SI prefix formatting)
//   - Standard-value series: the IEC 60063 E1..E96 mantissa tables
//   - Standard-value search: ClosestValue and ResistorDivider
//
// # Usage
//
//	r, _ := rounding.ClosestValue(55, rounding.E24, rounding.Nearest) // 56
//	s := rounding.Prefix(2.5e-6)                                    // "2.5µ"
//
//	q := rounding.DefaultDividerQuery()
//	q.VIn, q.VOut = 12, 1.26
//	q.IMin, q.IMax = 50e-6, 1e-3
//	pairs, err := rounding.ResistorDivider(q)
//
// # Tie-break
//
// ClosestValue with Nearest only selects the greater neighbour when it is
// strictly closer. A value exactly between two mantissas resolves to the
// lower one; callers depend on that bias.
//
// # Performance
//
// ResistorDivider is an exhaustive search over every ordered mantissa pair
// and 64 decade scalings. E96 evaluates roughly 600k candidates; prefer E12
// or E24 for interactive use.
package rounding
