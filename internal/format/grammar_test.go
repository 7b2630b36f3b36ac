package format

import (
	"slices"
	"testing"
)

func TestDeclGrammarExtract(t *testing.T) {
	tests := []struct {
		line string
		want []string // comment, type, assignment, vector, array, name
	}{
		{"reg a;", []string{"", "reg", ";", "", "", "a"}},
		{"wire [7:0] bbbb;", []string{"", "wire", ";", "[7:0]", "", "bbbb"}},
		{"  reg   [7:0]  mem [0:255];  // storage", []string{"// storage", "reg", ";", "[7:0]", "[0:255]", "mem"}},
		{"logic signed [3:0] x = y[3:0];", []string{"", "logic signed", "= y[3:0];", "[3:0]", "", "x"}},
		{"assign out = a & b;", []string{"", "assign", "= a & b;", "", "", "out"}},
		{"q <= d;", []string{"", "", "<= d;", "", "", "q"}},
		{"cnt += 1;", []string{"", "", "+= 1;", "", "", "cnt"}},
		{"data[3:0] = 4'h0;", []string{"", "", "= 4'h0;", "", "", "data[3:0]"}},
		{"a_reg = 1;", []string{"", "", "= 1;", "", "", "a_reg"}},
		{"wire a,b ,  c;", []string{"", "wire", ";", "", "", "a, b, c"}},
	}
	for _, tt := range tests {
		got := DeclGrammar.Extract(tt.line)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Extract(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestIOGrammarExtract(t *testing.T) {
	tests := []struct {
		line string
		want []string // comment, direction, type, vector, name
	}{
		{"input clk", []string{"", "input", "", "", "clk"}},
		{"  output reg [15:0] result // sum", []string{"// sum", "output", "reg", "[15:0]", "result"}},
		{"inout wire signed [3:0] pad", []string{"", "inout", "wire signed", "[3:0]", "pad"}},
		{"input signed [7:0] a, b", []string{"", "input", "signed", "[7:0]", "a, b"}},
		{"b", []string{"", "", "", "", "b"}},
	}
	for _, tt := range tests {
		got := IOGrammar.Extract(tt.line)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Extract(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

// Количество полей не зависит от содержимого строки
func TestExtractArity(t *testing.T) {
	lines := []string{"", "   ", "// only comment", "reg", "x = ;", "[7:0]", "input"}
	for _, g := range []*Grammar{DeclGrammar, IOGrammar} {
		for _, l := range lines {
			if got := len(g.Extract(l)); got != g.Arity() {
				t.Errorf("%s: Extract(%q) returned %d fields, want %d", g.Name, l, got, g.Arity())
			}
		}
	}
	if DeclGrammar.Columns() != decColumns {
		t.Errorf("DeclGrammar.Columns() = %d, want %d", DeclGrammar.Columns(), decColumns)
	}
	if IOGrammar.Columns() != ioColumns {
		t.Errorf("IOGrammar.Columns() = %d, want %d", IOGrammar.Columns(), ioColumns)
	}
}

func TestDeclClassify(t *testing.T) {
	tests := []struct {
		line    string
		aligned bool
	}{
		{"reg a;", true},
		{"x = 1;", true},
		{"q <= d; // next", true},
		{"", false},
		{"   ", false},
		{"// just a comment", false},
		{"`define WIDTH 8", false},
		{"/* block", false},
		{" * inside block", false},
		{"always @(posedge clk) begin", false},
		{"if (a == b) x = 1;", false},
		{"end", false},
		{"a = 1; b = 2;", false},
		{"foo(bar);", false},
		{"register_file u0 (.clk(clk));", false},
	}
	for _, tt := range tests {
		l := DeclGrammar.Classify(tt.line, 0)
		_, aligned := l.(Aligned)
		if aligned != tt.aligned {
			t.Errorf("Classify(%q) aligned = %v, want %v", tt.line, aligned, tt.aligned)
		}
		if v, ok := l.(Verbatim); ok && !isBlank(tt.line) && v.Text != tt.line {
			t.Errorf("Classify(%q) changed verbatim text to %q", tt.line, v.Text)
		}
	}
}

func TestPortClassify(t *testing.T) {
	tests := []struct {
		line    string
		aligned bool
	}{
		{"input clk", true},
		{"  output [3:0] q", true},
		{"b", true},
		{"c, d", true},
		{"// group", false},
		{"`ifdef DEBUG", false},
		{"parameter W = 8", false},
	}
	for _, tt := range tests {
		_, aligned := IOGrammar.Classify(tt.line, 0).(Aligned)
		if aligned != tt.aligned {
			t.Errorf("Classify(%q) aligned = %v, want %v", tt.line, aligned, tt.aligned)
		}
	}
}

func TestClassifyBlank(t *testing.T) {
	l := DeclGrammar.Classify(" \t ", 4)
	v, ok := l.(Verbatim)
	if !ok {
		t.Fatalf("expected Verbatim, got %T", l)
	}
	if v.Text != "" || v.Source() != 4 {
		t.Errorf("got %+v, want empty text from line 4", v)
	}
}
