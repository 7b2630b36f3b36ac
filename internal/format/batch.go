package format

// Batch is a group of lines aligned together, rendered with a shared left
// margin.
type Batch struct {
	Lines  []Line
	Indent string
}

// Anchors computes the column widths of a batch: for every field position
// the widest value plus one separator blank, or 0 when the column is empty
// on every line. Verbatim lines do not contribute.
func Anchors(lines []Line) []int {
	var anchors []int
	for _, l := range lines {
		a, ok := l.(Aligned)
		if !ok {
			continue
		}
		for i, f := range a.Fields {
			w := displayWidth(f)
			if i >= len(anchors) {
				anchors = append(anchors, 0)
			}
			if w > 0 && w+1 > anchors[i] {
				anchors[i] = w + 1
			}
		}
	}
	return anchors
}

// Aligned reports how many lines of the batch take part in alignment.
func (b Batch) Aligned() int {
	n := 0
	for _, l := range b.Lines {
		if _, ok := l.(Aligned); ok {
			n++
		}
	}
	return n
}

// Render joins the rendered lines with '\n'. There is no trailing newline.
func (b Batch) Render() string {
	anchors := Anchors(b.Lines)
	w := NewWriter(64 * len(b.Lines))
	for _, l := range b.Lines {
		w.Line(l.Render(anchors, b.Indent))
	}
	return w.String()
}
