package format

import (
	"vlalign/internal/ranges"
)

// RangeStats summarises one range alignment pass.
type RangeStats struct {
	// Dims is the largest bracket group count seen.
	Dims int
	// Mismatch is set when lines disagree on the number of groups.
	Mismatch bool
	// Unparsed lists sources whose field could not be parsed; those fields
	// are kept as they were.
	Unparsed []int
}

// alignRanges right-justifies every index expression of column idx so that
// colons and brackets line up across the batch. Lines with fewer groups than
// the widest line render only their own groups.
func alignRanges(lines []Line, idx int) ([]Line, RangeStats) {
	var stats RangeStats
	tokens := make([][]string, len(lines))
	var widths []int
	dims := -1

	for i, l := range lines {
		a, ok := l.(Aligned)
		if !ok || a.Field(idx) == "" {
			continue
		}
		r, err := ranges.Parse(a.Field(idx))
		if err != nil {
			stats.Unparsed = append(stats.Unparsed, a.Src)
			continue
		}
		if dims >= 0 && dims != r.Dims() {
			stats.Mismatch = true
		}
		if dims < r.Dims() {
			dims = r.Dims()
		}
		toks := r.Tokens()
		tokens[i] = toks
		widths = growWidths(widths, toks)
	}
	if dims > 0 {
		stats.Dims = dims
	}

	out := make([]Line, len(lines))
	for i, l := range lines {
		a, ok := l.(Aligned)
		if !ok || tokens[i] == nil {
			out[i] = l
			continue
		}
		out[i] = a.With(idx, renderRange(tokens[i], widths))
	}
	return out, stats
}

// growWidths folds the display widths of toks into widths, extending it when
// toks is longer.
func growWidths(widths []int, toks []string) []int {
	for i, t := range toks {
		w := displayWidth(t)
		if i >= len(widths) {
			widths = append(widths, w)
			continue
		}
		if w > widths[i] {
			widths[i] = w
		}
	}
	return widths
}

func renderRange(toks []string, widths []int) string {
	w := NewWriter(len(toks) * 4)
	for i, t := range toks {
		if i%2 == 0 {
			_ = w.WriteByte('[')
			w.PadLeft(t, widths[i])
			_ = w.WriteByte(':')
			continue
		}
		w.PadLeft(t, widths[i])
		_ = w.WriteByte(']')
	}
	return w.String()
}
