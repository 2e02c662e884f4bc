package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ErrSyntax is returned for strings that are not engineering-notation values.
var ErrSyntax = errors.New("units: invalid quantity")

// quantity is the parse tree of a single value. "4k7Ω" yields
// Whole="4", Word="k", Fraction="7", Unit="Ω".
type quantity struct {
	Sign     string `parser:"@Sign?"`
	Whole    string `parser:"@Number"`
	Word     string `parser:"@Word?"`
	Fraction string `parser:"@Number?"`
	Unit     string `parser:"@Word?"`
}

var quantityParser = participle.MustBuild[quantity](
	participle.Lexer(QuantityLexer),
	participle.Elide("Whitespace"),
)

// prefixExponents maps SI prefix letters to their decade exponent.
var prefixExponents = map[string]int{
	"y": -24, "z": -21, "a": -18, "f": -15, "p": -12,
	"n": -9, "u": -6, "µ": -6, "μ": -6, "m": -3,
	"k": 3, "K": 3, "M": 6, "G": 9, "T": 12,
	"P": 15, "E": 18, "Z": 21, "Y": 24,
}

// unitSymbols are accepted after a value and carry no scale.
var unitSymbols = map[string]bool{
	"V": true, "A": true, "F": true, "H": true, "Hz": true, "s": true,
	"W": true, "J": true, "Ω": true, "ohm": true, "ohms": true, "R": true,
}

// Parse converts an engineering-notation string to a float64. It accepts
// plain floats ("2.2e-6"), SI prefixes with optional unit ("100nF",
// "1.5MHz", "47µH") and RKM codes where the prefix replaces the decimal
// point ("4k7", "2u2", "4R7").
func Parse(s string) (float64, error) {
	q, err := quantityParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrSyntax, s, err)
	}
	v, err := q.value()
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrSyntax, s, err)
	}
	return v, nil
}

// MustParse is Parse for constant inputs. It panics on error.
func MustParse(s string) float64 {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (q *quantity) value() (float64, error) {
	text := q.Whole
	exp := 0

	if q.Fraction != "" {
		// RKM code: the letter sits where the decimal point would be.
		if strings.ContainsAny(q.Whole, ".eE") {
			return 0, fmt.Errorf("RKM code with fractional whole part")
		}
		e, ok := rkmExponent(q.Word)
		if !ok {
			return 0, fmt.Errorf("unknown RKM marker %q", q.Word)
		}
		text = q.Whole + "." + q.Fraction
		exp = e
		if q.Unit != "" && !unitSymbols[q.Unit] {
			return 0, fmt.Errorf("unknown unit %q", q.Unit)
		}
	} else {
		if q.Unit != "" {
			return 0, fmt.Errorf("unexpected %q", q.Unit)
		}
		e, err := suffixExponent(q.Word)
		if err != nil {
			return 0, err
		}
		exp = e
	}

	// Folding the prefix into the exponent keeps "156m" == 0.156 exactly.
	scale := 1.0
	if strings.ContainsAny(text, "eE") {
		scale = math.Pow10(exp)
	} else if exp != 0 {
		text += "e" + strconv.Itoa(exp)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	v *= scale
	if q.Sign == "-" {
		v = -v
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("value overflows float64")
	}
	return v, nil
}

func rkmExponent(word string) (int, bool) {
	if word == "R" || word == "r" {
		return 0, true
	}
	e, ok := prefixExponents[word]
	return e, ok
}

// suffixExponent interprets the letters after a number: nothing, a unit,
// a prefix, or a prefix followed by a unit.
func suffixExponent(word string) (int, error) {
	if word == "" || unitSymbols[word] {
		return 0, nil
	}
	runes := []rune(word)
	e, ok := prefixExponents[string(runes[0])]
	if !ok {
		return 0, fmt.Errorf("unknown suffix %q", word)
	}
	if rest := string(runes[1:]); rest != "" && !unitSymbols[rest] {
		return 0, fmt.Errorf("unknown unit %q", rest)
	}
	return e, nil
}
