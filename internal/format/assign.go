package format

import (
	"regexp"
	"strings"
)

var (
	assignOpRe = regexp.MustCompile(`^(?:<<=|>>=|<=|[-+*/%&|^]?=)`)
	arithOpRe  = regexp.MustCompile(`[-+*]{1,2}|/`)
)

type assignment struct {
	op   string // "=", "<=", "+=", ...
	rhs  string
	term string // ";" or ""
}

// parseAssignment splits an assignment field ("<= a+b;", "= c;", ";") into
// operator, normalised right-hand side and terminator.
func parseAssignment(field string) (assignment, bool) {
	var as assignment
	rest := strings.TrimSpace(field)
	if strings.HasSuffix(rest, ";") {
		as.term = ";"
		rest = strings.TrimSpace(strings.TrimSuffix(rest, ";"))
	}
	op := assignOpRe.FindString(rest)
	if op == "" {
		return as, false
	}
	as.op = op
	as.rhs = spaceOperators(rest[len(op):])
	return as, true
}

// spaceOperators puts one blank around + - * / (and their doubled forms) and
// after commas, then collapses whitespace.
func spaceOperators(s string) string {
	s = arithOpRe.ReplaceAllString(s, " $0 ")
	s = commaSpace.ReplaceAllString(s, ", ")
	return strings.TrimSpace(anyWS.ReplaceAllString(s, " "))
}

// alignAssignments rewrites column idx so that every right-hand side of the
// batch starts in the same column. Operators are right-aligned in their own
// column, so a "<=" line takes one more leading column than a "=" line.
// Right-hand sides are padded to the longest one plus a blank and the
// terminator follows. Lines without an assignment keep only their
// terminator, placed in the terminator column.
func alignAssignments(lines []Line, idx int) []Line {
	parsed := make([]assignment, len(lines))
	isAssign := make([]bool, len(lines))
	opWidth, rhsWidth := 0, 0
	anyAssign := false

	for i, l := range lines {
		a, ok := l.(Aligned)
		if !ok {
			continue
		}
		field := a.Field(idx)
		if !strings.Contains(field, "=") {
			if strings.HasSuffix(strings.TrimSpace(field), ";") {
				parsed[i].term = ";"
			}
			continue
		}
		as, ok := parseAssignment(field)
		if !ok {
			continue
		}
		parsed[i] = as
		isAssign[i] = true
		anyAssign = true
		opWidth = max(opWidth, displayWidth(as.op))
		rhsWidth = max(rhsWidth, displayWidth(as.rhs))
	}
	valueWidth := rhsWidth + 1

	out := make([]Line, len(lines))
	for i, l := range lines {
		a, ok := l.(Aligned)
		if !ok {
			out[i] = l
			continue
		}
		as := parsed[i]
		switch {
		case isAssign[i]:
			w := NewWriter(opWidth + valueWidth + 2)
			w.PadLeft(as.op, opWidth)
			_ = w.WriteByte(' ')
			if as.term != "" {
				w.Pad(as.rhs, valueWidth)
				w.WriteString(as.term)
			} else {
				w.WriteString(as.rhs)
			}
			out[i] = a.With(idx, w.String())
		case as.term != "" && anyAssign:
			out[i] = a.With(idx, padLeft(as.term, opWidth+1+valueWidth+displayWidth(as.term)))
		case strings.Contains(a.Field(idx), "="):
			// "=" present but not an operator we know: leave it alone
			out[i] = l
		default:
			out[i] = a.With(idx, as.term)
		}
	}
	return out
}
