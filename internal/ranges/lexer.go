package ranges

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RangeLexer splits a packed/unpacked dimension list such as "[WIDTH-1:0][3:0]".
// Index expressions are kept whole: everything between a bracket and a colon is
// a single Text token with the surrounding blanks elided.
var RangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},

	// Punctuation
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Colon", Pattern: `:`},

	// Index expression: no brackets or colons, no leading/trailing blanks
	{Name: "Text", Pattern: `[^\[\]:\s](?:[^\[\]:]*[^\[\]:\s])?`},
})
