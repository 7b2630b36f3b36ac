package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"vlalign/internal/diag"
	"vlalign/internal/source"
)

// fixEditPreview holds the whole lines an edit touches, before and after.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("no file set")
	}
	f := fs.Get(edit.Span.File)
	if f == nil {
		return fixEditPreview{}, fmt.Errorf("unknown file %d", edit.Span.File)
	}
	sp := edit.Span
	if sp.End < sp.Start || int(sp.End) > len(f.Content) {
		return fixEditPreview{}, fmt.Errorf("edit span %s outside the file", sp)
	}

	start, end := fs.Resolve(sp)
	first, last := int(start.Line), max(int(end.Line), int(start.Line))

	var p fixEditPreview
	for n := first; n <= last; n++ {
		p.before = append(p.before, f.GetLine(n))
	}
	// правка может начинаться и заканчиваться посреди строки
	head := string(f.Content[f.LineSpan(first).Start:sp.Start])
	tail := ""
	if lastEnd := f.LineSpan(last).End; sp.End < lastEnd {
		tail = string(f.Content[sp.End:lastEnd])
	}
	p.after = strings.Split(strings.TrimSuffix(head+edit.NewText+tail, "\n"), "\n")
	return p, nil
}
