package format

import (
	"strings"
)

// Mode tells which pipeline formatted a block.
type Mode uint8

const (
	ModeEmpty Mode = iota
	ModeDeclarations
	ModePorts
)

func (m Mode) String() string {
	switch m {
	case ModeDeclarations:
		return "declarations"
	case ModePorts:
		return "ports"
	default:
		return "empty"
	}
}

// portIndent is the left margin of every port line.
const portIndent = "  "

// Result is the outcome of aligning one block.
type Result struct {
	Text string
	Mode Mode
	// Verbatim lists the 0-based input lines that were left untouched
	// (blank lines excluded).
	Verbatim []int
	// RangeMismatch is set when vector or array fields of the block use
	// different numbers of bracket groups.
	RangeMismatch bool
	// Aligned is the number of lines that took part in alignment.
	Aligned int
}

// Align formats one block of text. A single trailing newline is kept.
func Align(text string, opt Options) Result {
	body, nl := strings.CutSuffix(text, "\n")
	if isBlank(body) {
		return Result{Text: text}
	}
	var res Result
	if loc := moduleHeadRe.FindStringIndex(body); loc != nil {
		res = alignPorts(body, loc[1], opt)
	} else {
		res = alignDeclarations(body, opt)
	}
	if nl {
		res.Text += "\n"
	}
	return res
}

func alignDeclarations(text string, opt Options) Result {
	res := Result{Mode: ModeDeclarations}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	indent, haveIndent := "", false
	for i, s := range raw {
		if opt.CondenseBlankLines && isBlank(s) {
			continue
		}
		l := DeclGrammar.Classify(s, i)
		if _, ok := l.(Aligned); ok && !haveIndent {
			indent, haveIndent = leadingSpace(s), true
		}
		lines = append(lines, l)
	}

	lines, vec := alignRanges(lines, decVector)
	lines, arr := alignRanges(lines, decArray)
	lines = alignAssignments(lines, decAssign)
	res.RangeMismatch = vec.Mismatch || arr.Mismatch

	b := Batch{Lines: lines, Indent: indent}
	res.Text = b.Render()
	res.Aligned = b.Aligned()
	res.Verbatim = untouched(lines)
	return res
}

// alignPorts formats a module header with its port list. headEnd is the
// offset just past the "(" that opens the list.
func alignPorts(text string, headEnd int, opt Options) Result {
	res := Result{Mode: ModePorts}
	header := text[:headEnd]
	rest := text[headEnd:]
	footer := ""
	if locs := moduleFootRe.FindAllStringIndex(rest, -1); len(locs) > 0 {
		cut := locs[len(locs)-1][0]
		lineStart := strings.LastIndexByte(rest[:cut], '\n') + 1
		if isBlank(rest[lineStart:cut]) {
			cut = lineStart
		}
		rest, footer = rest[:cut], rest[cut:]
	}
	// the remainder of the header line, if any, is the first port line
	first := strings.Count(header, "\n")
	if r, ok := strings.CutPrefix(rest, "\n"); ok {
		rest = r
		first++
	}

	raw := strings.Split(rest, "\n")
	lines := make([]Line, 0, len(raw))
	for i, s := range raw {
		if opt.CondenseBlankLines && isBlank(s) {
			continue
		}
		l := IOGrammar.Classify(stripSeparator(s), first+i)
		if v, ok := l.(Verbatim); ok && v.Text != "" {
			l = Verbatim{Text: s, Src: v.Src}
		}
		lines = append(lines, l)
	}
	lines = trimBlankEdges(lines)

	lines, vec := alignRanges(lines, ioVector)
	lines = placeCommas(lines, opt.AlignEndOfLine)
	res.RangeMismatch = vec.Mismatch

	b := Batch{Lines: lines, Indent: portIndent}
	w := NewWriter(len(text) + 64)
	w.Line(header)
	if len(lines) > 0 {
		w.Line(b.Render())
	}
	if footer != "" {
		w.Line(footer)
	}
	res.Text = w.String()
	res.Aligned = b.Aligned()
	res.Verbatim = untouched(lines)
	return res
}

func trimBlankEdges(lines []Line) []Line {
	blank := func(l Line) bool {
		v, ok := l.(Verbatim)
		return ok && v.Text == ""
	}
	for len(lines) > 0 && blank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && blank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func untouched(lines []Line) []int {
	var out []int
	for _, l := range lines {
		if v, ok := l.(Verbatim); ok && v.Text != "" {
			out = append(out, v.Src)
		}
	}
	return out
}
