package diag

import (
	"testing"

	"vlalign/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(New(SevInfo, FmtVerbatimLine, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Errorf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if NewBag(-5).Cap() != 0 {
		t.Error("negative limit must give an empty bag")
	}
	if NewBag(1 << 20).Cap() != ^uint16(0) {
		t.Error("huge limit must be clamped")
	}
}

func TestBagSortFilter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	ReportInfo(r, FmtVerbatimLine, source.Span{Start: 10, End: 12}, "untouched").Emit()
	ReportError(r, FmtNotIdempotent, source.Span{Start: 0, End: 5}, "changed").Emit()
	ReportWarning(r, FmtRangeDims, source.Span{Start: 0, End: 5}, "dims").Emit()
	ReportInfo(r, FmtVerbatimLine, source.Span{Start: 10, End: 12}, "untouched").Emit()

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (duplicate must be dropped)", b.Len())
	}
	b.Sort()
	items := b.Items()
	if items[0].Code != FmtNotIdempotent || items[1].Code != FmtRangeDims || items[2].Code != FmtVerbatimLine {
		t.Errorf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Error("expected errors and warnings")
	}

	b.Filter(SevWarning)
	if b.Len() != 2 {
		t.Errorf("Len after Filter = %d, want 2", b.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(New(SevInfo, FmtInfo, source.Span{}, "a"))
	other := NewBag(3)
	other.Add(New(SevInfo, FmtInfo, source.Span{}, "b"))
	other.Add(New(SevInfo, FmtInfo, source.Span{}, "c"))
	a.Merge(other)
	a.Merge(nil)
	if a.Len() != 3 {
		t.Errorf("Len after Merge = %d, want 3", a.Len())
	}
}

func TestEmitOnce(t *testing.T) {
	b := NewBag(5)
	rb := ReportWarning(BagReporter{Bag: b}, FmtRangeDims, source.Span{}, "dims").
		WithNote(source.Span{Start: 1}, "here")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	if len(b.Items()[0].Notes) != 1 {
		t.Errorf("note lost")
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(5)
	r := NewDedupReporter(BagReporter{Bag: b})
	for range 3 {
		r.Report(New(SevInfo, FmtVerbatimLine, source.Span{Start: 4, End: 9}, "same"))
	}
	r.Report(New(SevWarning, FmtVerbatimLine, source.Span{Start: 4, End: 9}, "same"))
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		FmtVerbatimLine:  "FMT1001",
		FmtNotIdempotent: "FMT1003",
		IOLoadFileError:  "IO4001",
		CfgBadRange:      "CFG5002",
		ObsTimings:       "OBS6001",
		UnknownCode:      "E0000",
	}
	for c, want := range tests {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
		if c.Title() == "" {
			t.Errorf("%s has no title", want)
		}
	}
	if Code(999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(999).Title())
	}
}
