package ui

import (
	"strings"
	"testing"

	"vlalign/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("vlalign fmt", files, nil).(*progressModel)
}

func TestApplyEventAddsUnknownFiles(t *testing.T) {
	m := newTestModel()
	m.applyEvent(driver.Event{File: "rtl/a.sv", Stage: driver.StageLoad, Status: driver.StatusQueued})
	m.applyEvent(driver.Event{File: "rtl/a.sv", Stage: driver.StageAlign, Status: driver.StatusWorking})
	if len(m.rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(m.rows))
	}
	if got := m.rows[0].label(); got != "aligning" {
		t.Errorf("label = %q, want aligning", got)
	}
	if got := m.percent(); got != 0.4 {
		t.Errorf("percent = %v, want 0.4", got)
	}
}

func TestPercentCountsFinishedFiles(t *testing.T) {
	m := newTestModel("a.v", "b.v")
	m.applyEvent(driver.Event{File: "a.v", Stage: driver.StageAlign, Status: driver.StatusDone})
	if got := m.percent(); got != 0.5 {
		t.Errorf("percent = %v, want 0.5", got)
	}
	m.applyEvent(driver.Event{File: "b.v", Stage: driver.StageWrite, Status: driver.StatusError})
	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}
	if m.failed != 1 {
		t.Errorf("failed = %d, want 1", m.failed)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newTestModel("a.v", "b.v")
	m.applyEvent(driver.Event{File: "a.v", Stage: driver.StageAlign, Status: driver.StatusDone})
	view := m.View()
	for _, want := range []string{"a.v", "b.v", "done", "queued"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not mention %q:\n%s", want, view)
		}
	}
}

func TestViewScrollsLongLists(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = strings.Repeat("x", i+1) + ".v"
	}
	view := newTestModel(files...).View()
	if !strings.Contains(view, "... 5 more") {
		t.Errorf("expected a scroll marker:\n%s", view)
	}
}

func TestIgnoresRunEvents(t *testing.T) {
	m := newTestModel("a.v")
	if cmd := m.applyEvent(driver.Event{Stage: driver.StageLoad, Status: driver.StatusWorking}); cmd != nil {
		t.Error("run-level event must not move the bar")
	}
	if len(m.rows) != 1 {
		t.Errorf("got %d rows, want 1", len(m.rows))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.v", 20, "short.v"},
		{"very/long/path/to/file.sv", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
