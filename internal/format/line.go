package format

import "slices"

// Line is one line of a batch: either Aligned (takes part in column
// computation) or Verbatim (passed through untouched).
type Line interface {
	// Render produces the output text of the line for the given column
	// anchors and left margin.
	Render(anchors []int, indent string) string
	// Source is the 0-based index of the input line, -1 if synthesised.
	Source() int
	isLine()
}

// Aligned holds the extracted fields of a recognised statement in column
// order. Position i means the same field for every line of a batch.
type Aligned struct {
	Fields []string
	Src    int
}

// Verbatim holds a line that is rendered exactly as stored.
type Verbatim struct {
	Text string
	Src  int
}

func (Aligned) isLine()  {}
func (Verbatim) isLine() {}

func (a Aligned) Source() int  { return a.Src }
func (v Verbatim) Source() int { return v.Src }

// Render writes indent followed by every field padded to its anchor.
// Trailing blanks are dropped; column positions are unaffected.
func (a Aligned) Render(anchors []int, indent string) string {
	w := NewWriter(len(indent) + 8*len(a.Fields))
	w.WriteString(indent)
	for i, f := range a.Fields {
		width := 0
		if i < len(anchors) {
			width = anchors[i]
		}
		w.Pad(f, width)
	}
	w.TrimLineEnd()
	return w.String()
}

// Render ignores anchors.
func (v Verbatim) Render([]int, string) string {
	return v.Text
}

// With returns a copy of a with field idx replaced. The receiver's field
// slice is never written.
func (a Aligned) With(idx int, value string) Aligned {
	fields := slices.Clone(a.Fields)
	fields[idx] = value
	return Aligned{Fields: fields, Src: a.Src}
}

// Field returns field idx or "" when out of range.
func (a Aligned) Field(idx int) string {
	if idx < 0 || idx >= len(a.Fields) {
		return ""
	}
	return a.Fields[idx]
}
