package format

import (
	"testing"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		field         string
		op, rhs, term string
		ok            bool
	}{
		{"= b+c;", "=", "b + c", ";", true},
		{"<= d;", "<=", "d", ";", true},
		{"=  {a,b}", "=", "{a, b}", "", true},
		{"<<= 2;", "<<=", "2", ";", true},
		{"= a**2 - b/4;", "=", "a ** 2 - b / 4", ";", true},
		{";", "", "", ";", false},
		{"", "", "", "", false},
	}
	for _, tt := range tests {
		as, ok := parseAssignment(tt.field)
		if ok != tt.ok || as.op != tt.op || as.rhs != tt.rhs || as.term != tt.term {
			t.Errorf("parseAssignment(%q) = %+v, %v; want op=%q rhs=%q term=%q ok=%v",
				tt.field, as, ok, tt.op, tt.rhs, tt.term, tt.ok)
		}
	}
}

func assignLines(fields ...string) []Line {
	lines := make([]Line, len(fields))
	for i, f := range fields {
		lines[i] = Aligned{Fields: []string{"x", f}, Src: i}
	}
	return lines
}

func assignFields(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.(Aligned).Fields[1]
	}
	return out
}

func TestAlignAssignments(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "blocking only",
			in:   []string{"= b+c;", "= dd;"},
			want: []string{"= b + c ;", "= dd    ;"},
		},
		{
			name: "non-blocking reserves a column",
			in:   []string{"= b+c;", "<= d;"},
			want: []string{" = b + c ;", "<= d     ;"},
		},
		{
			name: "declaration terminator follows the value column",
			in:   []string{";", "= 1;"},
			want: []string{"    ;", "= 1 ;"},
		},
		{
			name: "no assignment in batch",
			in:   []string{";", "", ";"},
			want: []string{";", "", ";"},
		},
		{
			name: "continuation keeps no terminator",
			in:   []string{"= a +", "<= b;"},
			want: []string{" = a +", "<= b   ;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignFields(alignAssignments(assignLines(tt.in...), 1))
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Правые части начинаются в одной колонке независимо от оператора
func TestAlignAssignmentsValueColumn(t *testing.T) {
	got := assignFields(alignAssignments(assignLines("= 1;", "<= 22;", "+= 333;"), 1))
	col := -1
	for i, f := range got {
		for j := 0; j < len(f); j++ {
			if f[j] == ' ' && j+1 < len(f) && f[j+1] >= '0' && f[j+1] <= '9' {
				if col < 0 {
					col = j
				} else if col != j {
					t.Errorf("line %d: value starts at %d, want %d (%q)", i, j+1, col+1, f)
				}
				break
			}
		}
	}
	if col < 0 {
		t.Fatalf("no values found in %q", got)
	}
}
