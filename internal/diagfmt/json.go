package diagfmt

import (
	"encoding/json"
	"io"

	"vlalign/internal/diag"
	"vlalign/internal/source"
)

// LocationJSON is a span in a file. Line and column fields are filled only
// with JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type FixEditJSON struct {
	Location    *LocationJSON `json:"location,omitempty"`
	NewText     string        `json:"new_text"`
	BeforeLines []string      `json:"before_lines,omitempty"`
	AfterLines  []string      `json:"after_lines,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic; Location is omitted for diagnostics
// that are not tied to a file (load errors, timings).
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(sp source.Span) *LocationJSON {
	if b.fs == nil {
		return nil
	}
	f := b.fs.Get(sp.File)
	if f == nil {
		return nil
	}
	loc := &LocationJSON{
		File:      formatPath(f, b.opts.PathMode, b.fs.BaseDir()),
		StartByte: sp.Start,
		EndByte:   sp.End,
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	// у таймингов вся полезная нагрузка в заметке
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if !b.opts.IncludeFixes {
		return out
	}
	for _, fix := range d.Fixes {
		fj := FixJSON{Title: fix.Title}
		for _, edit := range fix.Edits {
			ej := FixEditJSON{Location: b.location(edit.Span), NewText: edit.NewText}
			if b.opts.IncludePreviews {
				if p, err := buildFixEditPreview(b.fs, edit); err == nil {
					ej.BeforeLines, ej.AfterLines = p.before, p.after
				}
			}
			fj.Edits = append(fj.Edits, ej)
		}
		out.Fixes = append(out.Fixes, fj)
	}
	return out
}

// BuildDiagnosticsOutput converts the bag in its current order, keeping at
// most opts.Max entries when Max is positive.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	b := jsonBuilder{fs: fs, opts: opts}
	for _, d := range bag.Refs() {
		if opts.Max > 0 && len(out.Diagnostics) == opts.Max {
			break
		}
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes BuildDiagnosticsOutput as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
