package testkit

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"vlalign/internal/diag"
	"vlalign/internal/format"
	"vlalign/internal/source"
)

// CheckFieldCount verifies that the grammar yields the same number of
// fields for every line, recognised or not.
func CheckFieldCount(g *format.Grammar, lines []string) error {
	for _, l := range lines {
		if got := len(g.Extract(l)); got != g.Arity() {
			return fmt.Errorf("%s: %q has %d fields, want %d", g.Name, l, got, g.Arity())
		}
	}
	return nil
}

// CheckUntouched verifies that every line reported as verbatim appears in
// the output byte for byte, in the original order.
func CheckUntouched(in string, res format.Result) error {
	inLines := strings.Split(strings.TrimSuffix(in, "\n"), "\n")
	outLines := strings.Split(strings.TrimSuffix(res.Text, "\n"), "\n")
	next := 0
	for _, idx := range res.Verbatim {
		if idx < 0 || idx >= len(inLines) {
			return fmt.Errorf("verbatim index %d out of range (%d lines)", idx, len(inLines))
		}
		want := inLines[idx]
		pos := slices.Index(outLines[next:], want)
		if pos < 0 {
			return fmt.Errorf("line %d %q is missing from the output", idx+1, want)
		}
		next += pos + 1
	}
	return nil
}

// CheckIdempotent verifies that formatting the output again is a no-op.
func CheckIdempotent(in string, opt format.Options) error {
	if ok, msg := format.CheckIdempotent(in, opt); !ok {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// CheckWidthMonotonic verifies that adding extra lines to a declaration
// block never narrows a column.
func CheckWidthMonotonic(block, extra []string) error {
	classify := func(lines []string) []format.Line {
		out := make([]format.Line, len(lines))
		for i, l := range lines {
			out[i] = format.DeclGrammar.Classify(l, i)
		}
		return out
	}
	before := format.Anchors(classify(block))
	after := format.Anchors(classify(append(slices.Clone(block), extra...)))
	for i, w := range before {
		if i >= len(after) || after[i] < w {
			return fmt.Errorf("column %d narrowed from %d to %v", i, w, anchorAt(after, i))
		}
	}
	return nil
}

func anchorAt(anchors []int, i int) any {
	if i < len(anchors) {
		return anchors[i]
	}
	return "missing"
}

// CheckDiagSpans verifies that every diagnostic attached to sf points
// inside its content. Diagnostics without a location (zero span) are
// skipped.
func CheckDiagSpans(bag *diag.Bag, sf *source.File) error {
	if bag == nil || sf == nil {
		return fmt.Errorf("nil bag or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for _, d := range bag.Items() {
		sp := d.Primary
		if sp == (source.Span{File: sp.File}) {
			continue
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s: span points to different file id: got=%d want=%d", d.Code.ID(), sp.File, sf.ID)
		}
		if sp.End < sp.Start {
			return fmt.Errorf("%s: inverted span %v", d.Code.ID(), sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("%s: span end beyond content: %d > %d", d.Code.ID(), sp.End, lenContent)
		}
	}
	return nil
}
