package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"vlalign/internal/source"
)

type shortLine struct {
	path      string
	line, col uint32
	label     string
	code      string
	msg       string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics renders one "label CODE path:line:col message" line
// per diagnostic (and per note when notes is set), sorted by position.
// Diagnostics without a resolvable file are skipped. No trailing newline.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, notes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(sp source.Span, label, code, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		pos, _ := fs.Resolve(sp)
		path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
		lines = append(lines, shortLine{
			path:  strings.TrimPrefix(path, "./"),
			line:  pos.Line,
			col:   pos.Col,
			label: label,
			code:  code,
			msg:   strings.Join(strings.Fields(msg), " "),
		})
	}
	for _, d := range diags {
		add(d.Primary, strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message)
		if notes {
			for _, n := range d.Notes {
				add(n.Span, "note", d.Code.ID(), n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
