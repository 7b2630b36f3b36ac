// Package ranges parses bracketed bit/array ranges ("[7:0]", "[N-1:0][0:3]")
// into their index expressions.
package ranges

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Ranges is one or more consecutive bracket groups.
type Ranges struct {
	Groups []*Group `parser:"@@+"`
}

// Group is a single "[left:right]" pair. Either side may be empty.
type Group struct {
	Left  string `parser:"LBracket @Text?"`
	Right string `parser:"Colon @Text? RBracket"`
}

var rangeParser = participle.MustBuild[Ranges](
	participle.Lexer(RangeLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a dimension list. The whole input must be consumed.
func Parse(field string) (*Ranges, error) {
	if strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("empty range")
	}
	r, err := rangeParser.ParseString("", field)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return r, nil
}

// Tokens flattens the groups: even positions hold left-of-colon expressions,
// odd positions right-of-colon ones.
func (r *Ranges) Tokens() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Groups)*2)
	for _, g := range r.Groups {
		out = append(out, g.Left, g.Right)
	}
	return out
}

// Dims returns the number of bracket groups.
func (r *Ranges) Dims() int {
	if r == nil {
		return 0
	}
	return len(r.Groups)
}
