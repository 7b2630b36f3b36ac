package format

import (
	"regexp"
	"strings"
)

type fieldMode uint8

const (
	// modeNormalize trims the match and collapses inner whitespace.
	modeNormalize fieldMode = iota
	// modeVerbatim keeps the match byte for byte (comments).
	modeVerbatim
)

// fieldPattern is one step of a grammar. Patterns run in order against the
// remaining text; a match is cut out so later patterns never see it.
type fieldPattern struct {
	name string
	re   *regexp.Regexp
	mode fieldMode
	// when, if set, decides from the fields captured so far whether the
	// pattern runs at all. A skipped pattern yields "".
	when func(got []string) bool
	// post rewrites the captured value.
	post func(string) string
}

// Grammar is an ordered micro-grammar that decomposes one line into a fixed
// tuple of fields and arranges them into rendering order.
type Grammar struct {
	Name   string
	fields []fieldPattern
	// arrange maps extraction order to rendering (column) order.
	arrange func(got []string) []string
	// classify decides whether the comment-free code of a line is a
	// statement of this grammar.
	classify func(code string) lineKind
}

type lineKind uint8

const (
	kindSkip lineKind = iota // don't touch
	kindStatement
)

const typeKeywords = `reg|wire|logic|integer|bit|byte|shortint|int|longint|time|shortreal|real|double|realtime`

// column positions of the declaration layout
const (
	decType = iota
	decVector
	decName
	decArray
	decAssign
	decComment
	decColumns
)

// column positions of the port list layout
const (
	ioSep = iota
	ioDir
	ioType
	ioVector
	ioName
	ioComment
	ioColumns
)

var (
	commentRe = regexp.MustCompile(`//.*`)

	declTypeRe = regexp.MustCompile(`^\s*\b(?:` + typeKeywords + `|assign)\b(?:\s+(?:un)?signed\b)?\s*`)
	assignRe   = regexp.MustCompile(`<=.*|(?:<<|>>|[-+*/%&|^])?=.*|;\s*$`)
	vectorRe   = regexp.MustCompile(`^\s*(?:\[[^\[\]:]*:[^\[\]:]*\]\s*)+`)
	arrayRe    = regexp.MustCompile(`(?:\[[^\[\]:]*:[^\[\]:]*\]\s*)+`)
	restRe     = regexp.MustCompile(`.*`)

	directionRe = regexp.MustCompile(`^\s*\b(?:input|output|inout)\b\s*`)
	ioTypeRe    = regexp.MustCompile(`^\s*(?:\b(?:` + typeKeywords + `)\b(?:\s+(?:un)?signed\b)?|\b(?:un)?signed\b)\s*`)

	declStartRe  = regexp.MustCompile(`^(?:` + typeKeywords + `|assign)\b`)
	directionAt  = regexp.MustCompile(`^(?:input|output|inout)\b`)
	identListRe  = regexp.MustCompile(`^[A-Za-z_][\w$]*(?:\s*,\s*[A-Za-z_][\w$]*)*$`)
	controlKwRe  = regexp.MustCompile(`^(?:if|else|for|foreach|while|do|repeat|forever|case|casex|casez|endcase|always|always_ff|always_comb|always_latch|initial|final|begin|end|fork|join|join_any|join_none|module|macromodule|endmodule|function|endfunction|task|endtask|generate|endgenerate|return|default|package|endpackage|interface|endinterface)\b`)
	blockCommRe  = regexp.MustCompile(`^(?:/\*|\*)`)
	directiveRe  = regexp.MustCompile("^`")
	moduleHeadRe = regexp.MustCompile(`(?m)^[ \t]*(?:macro)?module\s[^\n]*\(`)
	moduleFootRe = regexp.MustCompile(`\)\s*;`)
)

// DeclGrammar decomposes declarations and assignments:
// comment, data type, assignment, vector, array, name.
var DeclGrammar = &Grammar{
	Name: "declaration",
	fields: []fieldPattern{
		{name: "comment", re: commentRe, mode: modeVerbatim},
		{name: "type", re: declTypeRe},
		{name: "assignment", re: assignRe},
		{name: "vector", re: vectorRe, when: hasStorageType},
		{name: "array", re: arrayRe, when: hasStorageType},
		{name: "name", re: restRe, post: normalizeList},
	},
	arrange: func(got []string) []string {
		// got: comment, type, assignment, vector, array, name
		return []string{got[1], got[3], got[5], got[4], got[2], got[0]}
	},
	classify: classifyDecl,
}

// IOGrammar decomposes port declarations: comment, direction, data type,
// vector, name. The rendered layout carries an extra leading separator
// column used by the comma policy.
var IOGrammar = &Grammar{
	Name: "port",
	fields: []fieldPattern{
		{name: "comment", re: commentRe, mode: modeVerbatim},
		{name: "direction", re: directionRe},
		{name: "type", re: ioTypeRe},
		{name: "vector", re: vectorRe},
		{name: "name", re: restRe, post: normalizeList},
	},
	arrange: func(got []string) []string {
		// got: comment, direction, type, vector, name
		return []string{"", got[1], got[2], got[3], got[4], got[0]}
	},
	classify: classifyPort,
}

func hasStorageType(got []string) bool {
	return got[1] != "" && got[1] != "assign"
}

// Arity is the number of fields Extract returns.
func (g *Grammar) Arity() int {
	return len(g.fields)
}

// Columns is the number of rendered columns of an aligned line.
func (g *Grammar) Columns() int {
	got := make([]string, len(g.fields))
	return len(g.arrange(got))
}

// Extract runs the grammar over line and returns one value per pattern, in
// pattern order. Absent fields are "".
func (g *Grammar) Extract(line string) []string {
	rest := line
	got := make([]string, len(g.fields))
	for i, f := range g.fields {
		if f.when != nil && !f.when(got) {
			continue
		}
		loc := f.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		val := rest[loc[0]:loc[1]]
		rest = rest[:loc[0]] + rest[loc[1]:]
		if f.mode == modeNormalize {
			val = normalize(val)
		}
		if f.post != nil {
			val = f.post(val)
		}
		got[i] = val
	}
	return got
}

func classifyDecl(code string) lineKind {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return kindSkip
	case directiveRe.MatchString(code), blockCommRe.MatchString(code), controlKwRe.MatchString(code):
		return kindSkip
	case strings.Count(code, ";") > 1:
		return kindSkip
	case declStartRe.MatchString(code), strings.Contains(code, "="):
		return kindStatement
	}
	return kindSkip
}

func classifyPort(code string) lineKind {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return kindSkip
	case directionAt.MatchString(code), identListRe.MatchString(code):
		// a bare identifier list continues the previous port's direction
		return kindStatement
	}
	return kindSkip
}

// Classify turns one input line into a Line. Blank lines become an empty
// Verbatim line; lines the grammar does not recognise keep their text.
func (g *Grammar) Classify(line string, src int) Line {
	if isBlank(line) {
		return Verbatim{Text: "", Src: src}
	}
	code, _ := splitComment(line)
	if g.classify(code) != kindStatement {
		return Verbatim{Text: line, Src: src}
	}
	return Aligned{Fields: g.arrange(g.Extract(line)), Src: src}
}
