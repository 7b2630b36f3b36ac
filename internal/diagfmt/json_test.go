package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"vlalign/internal/diag"
	"vlalign/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("count = %d, want 2", output.Count)
	}

	first := output.Diagnostics[0]
	if first.Severity != "INFO" || first.Code != "FMT1001" {
		t.Errorf("unexpected first diagnostic: %+v", first)
	}
	if first.Location == nil || first.Location.File != "top.sv" || first.Location.StartLine != 2 || first.Location.StartCol != 1 {
		t.Errorf("unexpected location: %+v", first.Location)
	}

	second := output.Diagnostics[1]
	if len(second.Fixes) != 1 || len(second.Fixes[0].Edits) != 1 {
		t.Fatalf("expected one fix with one edit, got %+v", second.Fixes)
	}
	edit := second.Fixes[0].Edits[0]
	if edit.NewText != "reg a ;" || len(edit.BeforeLines) != 1 || edit.AfterLines[0] != "reg a ;" {
		t.Errorf("unexpected edit: %+v", edit)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := testBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Errorf("Count = %d, want 1", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Error("positions must be omitted unless requested")
	}
}

func TestJSONWithoutLocation(t *testing.T) {
	bag := diag.NewBag(2)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file"))
	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{IncludePositions: true})
	if out.Count != 1 || out.Diagnostics[0].Location != nil {
		t.Errorf("unexpected output: %+v", out)
	}
	if got := BuildDiagnosticsOutput(nil, nil, JSONOpts{}); got.Count != 0 || got.Diagnostics == nil {
		t.Errorf("nil bag = %+v", got)
	}
}
