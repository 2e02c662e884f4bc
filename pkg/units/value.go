package units

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
)

// Value is a float64 that decodes from engineering notation. It can be used
// as a command-line flag and as a YAML or TOML field, where it accepts
// either a number or a string such as "156m".
type Value float64

var (
	_ pflag.Value      = (*Value)(nil)
	_ yaml.Unmarshaler = (*Value)(nil)
	_ toml.Unmarshaler = (*Value)(nil)
)

// Float returns the value as a float64.
func (v Value) Float() float64 { return float64(v) }

// Ptr returns a pointer to the float64 value, or nil for a nil receiver.
func (v *Value) Ptr() *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// String implements pflag.Value.
func (v *Value) String() string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(float64(*v), 'g', -1, 64)
}

// Set implements pflag.Value.
func (v *Value) Set(s string) error {
	f, err := Parse(s)
	if err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// Type implements pflag.Value.
func (v *Value) Type() string { return "quantity" }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("units: line %d: expected a scalar quantity", node.Line)
	}
	if err := v.Set(node.Value); err != nil {
		return fmt.Errorf("units: line %d: %w", node.Line, err)
	}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (v *Value) UnmarshalTOML(data interface{}) error {
	switch d := data.(type) {
	case float64:
		*v = Value(d)
	case int64:
		*v = Value(d)
	case string:
		return v.Set(d)
	default:
		return fmt.Errorf("units: cannot use %T as a quantity", data)
	}
	return nil
}

// Format renders x with four significant figures, an SI prefix and unit,
// e.g. Format(4.7e-6, "H") == "4.7µH".
func Format(x float64, unit string) string {
	r, err := rounding.SigFigs(x, 4)
	if err != nil {
		r = x
	}
	return rounding.Prefix(r) + unit
}
