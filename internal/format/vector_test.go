package format

import (
	"testing"
)

func vectorLines(fields ...string) []Line {
	lines := make([]Line, 0, len(fields))
	for i, f := range fields {
		if f == "#" {
			lines = append(lines, Verbatim{Text: "// keep [1:0]", Src: i})
			continue
		}
		lines = append(lines, Aligned{Fields: []string{"wire", f, "x"}, Src: i})
	}
	return lines
}

func TestAlignRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"single", []string{"[7:0]"}, []string{"[7:0]"}},
		{"right justified", []string{"[7:0]", "[15:0]", ""}, []string{"[ 7:0]", "[15:0]", ""}},
		{"both halves", []string{"[WIDTH-1:0]", "[3:LSB]"}, []string{"[WIDTH-1:  0]", "[      3:LSB]"}},
		{"spaces dropped", []string{"[ 7 : 0 ]", "[31:0]"}, []string{"[ 7:0]", "[31:0]"}},
		{"two dims", []string{"[3:0][7:0]", "[15:0][1:0]"}, []string{"[ 3:0][7:0]", "[15:0][1:0]"}},
		{"verbatim untouched", []string{"[7:0]", "#", "[10:0]"}, []string{"[ 7:0]", "", "[10:0]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := vectorLines(tt.in...)
			out, _ := alignRanges(in, 1)
			if len(out) != len(in) {
				t.Fatalf("got %d lines, want %d", len(out), len(in))
			}
			for i, l := range out {
				a, ok := l.(Aligned)
				if !ok {
					if v := l.(Verbatim); v.Text != "// keep [1:0]" {
						t.Errorf("line %d: verbatim text changed to %q", i, v.Text)
					}
					continue
				}
				if a.Fields[1] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, a.Fields[1], tt.want[i])
				}
			}
		})
	}
}

// Проход не меняет исходные строки
func TestAlignRangesDoesNotMutate(t *testing.T) {
	in := vectorLines("[7:0]", "[15:0]")
	_, _ = alignRanges(in, 1)
	if got := in[0].(Aligned).Fields[1]; got != "[7:0]" {
		t.Errorf("input line was modified: %q", got)
	}
}

func TestAlignRangesMismatch(t *testing.T) {
	out, stats := alignRanges(vectorLines("[7:0]", "[3:0][1:0]"), 1)
	if !stats.Mismatch {
		t.Error("expected mismatch to be reported")
	}
	if stats.Dims != 2 {
		t.Errorf("Dims = %d, want 2", stats.Dims)
	}
	if got := out[0].(Aligned).Fields[1]; got != "[7:0]" {
		t.Errorf("one-dimensional line rendered as %q", got)
	}
	if got := out[1].(Aligned).Fields[1]; got != "[3:0][1:0]" {
		t.Errorf("two-dimensional line rendered as %q", got)
	}

	// Столбец добивается якорем партии
	anchors := Anchors(out)
	if anchors[1] != len("[3:0][1:0]")+1 {
		t.Errorf("vector anchor = %d, want %d", anchors[1], len("[3:0][1:0]")+1)
	}
}

func TestAlignRangesUnparsed(t *testing.T) {
	out, stats := alignRanges(vectorLines("[7:0]", "[bad", "[10:0]"), 1)
	if len(stats.Unparsed) != 1 || stats.Unparsed[0] != 1 {
		t.Errorf("Unparsed = %v, want [1]", stats.Unparsed)
	}
	if got := out[1].(Aligned).Fields[1]; got != "[bad" {
		t.Errorf("unparsed field changed to %q", got)
	}
	if got := out[0].(Aligned).Fields[1]; got != "[ 7:0]" {
		t.Errorf("got %q, want %q", got, "[ 7:0]")
	}
}
