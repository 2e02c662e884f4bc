package controller

import (
	"fmt"
	"strings"
)

// Topology names a converter topology a controller can drive.
type Topology string

const (
	Boost   Topology = "boost"
	Flyback Topology = "flyback"
)

// Known reports whether t is a topology with design formulas.
func (t Topology) Known() bool {
	return t == Boost || t == Flyback
}

// ParseTopology normalizes a topology name.
func ParseTopology(name string) (Topology, error) {
	t := Topology(strings.ToLower(strings.TrimSpace(name)))
	if !t.Known() {
		return "", fmt.Errorf("controller: unknown topology %q", name)
	}
	return t, nil
}

// Field names an optional controller parameter. The names match the symbols
// used in datasheets and in catalog files.
type Field string

const (
	VRef     Field = "V_ref"      // Feedback reference voltage (V)
	VSense   Field = "V_sense"    // Current-sense threshold (V)
	RatioVSl Field = "ratio_V_sl" // Slope compensation to sense voltage ratio
	VSl      Field = "V_sl"       // Internal slope compensation voltage (V)
	IRfb     Field = "I_Rfb"      // Feedback resistor current (A)
	ISwMax   Field = "I_sw_max"   // Maximum switch current (A)
	ISwMin   Field = "I_sw_min"   // Minimum switch current (A)
	TOnMin   Field = "t_on_min"   // Minimum on time (s)
	TOffMin  Field = "t_off_min"  // Minimum off time (s)
)

// Fields lists every scalar parameter in catalog order.
var Fields = []Field{VRef, VSense, RatioVSl, VSl, IRfb, ISwMax, ISwMin, TOnMin, TOffMin}

// FreqRange is a supported switching-frequency window in Hz.
type FreqRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether f lies within the window, bounds included.
func (r FreqRange) Contains(f float64) bool {
	return f >= r.Min && f <= r.Max
}

// Controller describes a switch-mode controller IC. Parameters the datasheet
// does not specify (or that do not apply) are nil; formulas that need them
// fail with a MissingFieldError instead of computing with a zero.
type Controller struct {
	Name       string     `json:"name"`
	Topologies []Topology `json:"topologies"`

	VRef     *float64 `json:"V_ref,omitempty"`
	VSense   *float64 `json:"V_sense,omitempty"`
	RatioVSl *float64 `json:"ratio_V_sl,omitempty"`
	VSl      *float64 `json:"V_sl,omitempty"`
	IRfb     *float64 `json:"I_Rfb,omitempty"`
	ISwMax   *float64 `json:"I_sw_max,omitempty"`
	ISwMin   *float64 `json:"I_sw_min,omitempty"`
	TOnMin   *float64 `json:"t_on_min,omitempty"`
	TOffMin  *float64 `json:"t_off_min,omitempty"`

	FswRange *FreqRange `json:"f_sw_range,omitempty"`
}

// field returns the storage for f, or nil for an unknown field name.
func (c *Controller) field(f Field) **float64 {
	switch f {
	case VRef:
		return &c.VRef
	case VSense:
		return &c.VSense
	case RatioVSl:
		return &c.RatioVSl
	case VSl:
		return &c.VSl
	case IRfb:
		return &c.IRfb
	case ISwMax:
		return &c.ISwMax
	case ISwMin:
		return &c.ISwMin
	case TOnMin:
		return &c.TOnMin
	case TOffMin:
		return &c.TOffMin
	}
	return nil
}

// Has reports whether the parameter f is present.
func (c *Controller) Has(f Field) bool {
	p := c.field(f)
	return p != nil && *p != nil
}

// Param returns the value of f, or a *MissingFieldError when the controller
// does not define it.
func (c *Controller) Param(f Field) (float64, error) {
	p := c.field(f)
	if p == nil {
		return 0, fmt.Errorf("controller: unknown parameter %q", f)
	}
	if *p == nil {
		return 0, &MissingFieldError{Controller: c.Name, Field: f}
	}
	return **p, nil
}

// Params returns the values of fs in order. Every missing field is reported,
// not only the first.
func (c *Controller) Params(fs ...Field) ([]float64, error) {
	values := make([]float64, len(fs))
	var missing []Field
	for i, f := range fs {
		v, err := c.Param(f)
		if err != nil {
			if _, ok := err.(*MissingFieldError); !ok {
				return nil, err
			}
			missing = append(missing, f)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return nil, &MissingFieldError{Controller: c.Name, Field: missing[0], Others: missing[1:]}
	}
	return values, nil
}

// Supports reports whether the controller can drive topology t.
func (c *Controller) Supports(t Topology) bool {
	for _, have := range c.Topologies {
		if have == t {
			return true
		}
	}
	return false
}

// RequireTopology returns an *UnsupportedTopologyError unless the
// controller supports t.
func (c *Controller) RequireTopology(t Topology) error {
	if c.Supports(t) {
		return nil
	}
	return &UnsupportedTopologyError{Controller: c.Name, Topology: t}
}

// CheckFrequency reports ErrFrequencyRange when f lies outside the
// controller's switching-frequency window. Controllers without a window
// accept any frequency.
func (c *Controller) CheckFrequency(f float64) error {
	if c.FswRange == nil || c.FswRange.Contains(f) {
		return nil
	}
	return fmt.Errorf("%w: %s supports %g..%g Hz, got %g Hz",
		ErrFrequencyRange, c.Name, c.FswRange.Min, c.FswRange.Max, f)
}

// Clone returns a deep copy so callers can tweak parameters without
// touching catalog entries.
func (c *Controller) Clone() *Controller {
	out := *c
	out.Topologies = append([]Topology(nil), c.Topologies...)
	for _, f := range Fields {
		if src := *c.field(f); src != nil {
			v := *src
			*out.field(f) = &v
		}
	}
	if c.FswRange != nil {
		r := *c.FswRange
		out.FswRange = &r
	}
	return &out
}

// With returns a copy of c with f set to v.
func (c *Controller) With(f Field, v float64) *Controller {
	out := c.Clone()
	if p := out.field(f); p != nil {
		*p = &v
	}
	return out
}

// Without returns a copy of c with f cleared.
func (c *Controller) Without(f Field) *Controller {
	out := c.Clone()
	if p := out.field(f); p != nil {
		*p = nil
	}
	return out
}

func float(v float64) *float64 { return &v }
