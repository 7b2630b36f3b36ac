package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vlalign/internal/diag"
	"vlalign/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		code:    color.New(color.Bold),
		path:    color.New(color.FgWhite, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i := range bag.Items() {
		d := &bag.Items()[i]
		if d.Severity < opts.MinSeverity {
			continue
		}
		printDiagnostic(w, d, fs, opts, pal)
	}
}

func printDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	loc := location(d.Primary, fs, opts.PathMode)
	if loc != "" {
		fmt.Fprintf(w, "%s: ", pal.path.Sprint(loc))
	}
	fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)

	if loc != "" && opts.Context >= 0 {
		printContext(w, d.Primary, fs, int(opts.Context), pal)
	}

	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			if nl := location(n.Span, fs, opts.PathMode); nl != "" {
				fmt.Fprintf(w, "  note: %s: %s\n", nl, n.Msg)
			} else {
				fmt.Fprintf(w, "  note: %s\n", n.Msg)
			}
		}
	}

	if !opts.ShowFixes {
		return
	}
	for _, fix := range d.Fixes {
		fmt.Fprintf(w, "  fix: %s\n", fix.Title)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range fix.Edits {
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				fmt.Fprintf(w, "    (no preview: %v)\n", err)
				continue
			}
			for _, l := range preview.before {
				fmt.Fprintf(w, "    %s\n", pal.removed.Sprint("- "+l))
			}
			for _, l := range preview.after {
				fmt.Fprintf(w, "    %s\n", pal.added.Sprint("+ "+l))
			}
		}
	}
}

// location returns "path:line:col" or "" for spans without a file.
func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode, fs.BaseDir()), start.Line, start.Col)
}

func printContext(w io.Writer, sp source.Span, fs *source.FileSet, context int, pal palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := int(start.Line)
	first := max(line-context, 1)
	gutterWidth := len(fmt.Sprint(line))

	for n := first; n <= line; n++ {
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), f.GetLine(n))
	}

	text := f.GetLine(line)
	col := min(int(start.Col)-1, len(text))
	stop := len(text)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(text))
	}
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), underlinePrefix(text[:col]), pal.caret.Sprint(underline(text[col:stop])))
}

// underlinePrefix keeps tabs so the caret lines up with the source line.
func underlinePrefix(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(s string) string {
	width := runewidth.StringWidth(s)
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}
