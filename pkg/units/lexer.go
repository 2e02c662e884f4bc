package units

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// QuantityLexer tokenizes engineering-notation values such as "4k7",
// "100nF" or "-2.2e-6".
var QuantityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t]+`},

	// Numbers swallow a trailing exponent, so "1e3" never lexes as 1 + "e3".
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]*)?([eE][-+]?[0-9]+)?|\.[0-9]+([eE][-+]?[0-9]+)?`},
	{Name: "Sign", Pattern: `[-+]`},

	// Prefix letters, RKM markers and unit symbols
	{Name: "Word", Pattern: `[a-zA-ZµμΩ]+`},
})
