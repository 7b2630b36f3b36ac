package source

import (
	"errors"
	"testing"
)

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		in      string
		want    LineRange
		wantErr bool
	}{
		{"", LineRange{}, false},
		{"3:7", LineRange{Start: 3, End: 7}, false},
		{" 3 : 7 ", LineRange{Start: 3, End: 7}, false},
		{"5", LineRange{Start: 5, End: 5}, false},
		{"5:", LineRange{Start: 5}, false},
		{":4", LineRange{Start: 1, End: 4}, false},
		{"0:3", LineRange{}, true},
		{"7:3", LineRange{}, true},
		{"a:b", LineRange{}, true},
		{"-1", LineRange{}, true},
	}
	for _, tt := range tests {
		got, err := ParseLineRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLineRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrBadRange) {
			t.Errorf("ParseLineRange(%q) error %v is not ErrBadRange", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLineRange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSelectAndSplice(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.v", []byte("module m;\nreg a;\nwire bb;\nendmodule\n")))

	block, start, end, err := f.Select(LineRange{Start: 2, End: 3})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if block != "reg a;\nwire bb;\n" {
		t.Errorf("block = %q", block)
	}
	got := string(f.Splice(start, end, "reg  a;\nwire bb;\n"))
	want := "module m;\nreg  a;\nwire bb;\nendmodule\n"
	if got != want {
		t.Errorf("Splice = %q, want %q", got, want)
	}

	// End за пределами файла обрезается
	block, _, _, err = f.Select(LineRange{Start: 4, End: 99})
	if err != nil || block != "endmodule\n" {
		t.Errorf("Select(4:99) = %q, %v", block, err)
	}

	if _, _, _, err := f.Select(LineRange{Start: 9}); !errors.Is(err, ErrBadRange) {
		t.Errorf("Select past end: err = %v", err)
	}

	whole, s, e, _ := f.Select(LineRange{})
	if whole != string(f.Content) || s != 0 || e != len(f.Content) {
		t.Errorf("zero range did not select whole file")
	}
}

func TestLineRangeString(t *testing.T) {
	for r, want := range map[LineRange]string{
		{}:                  ":",
		{Start: 2}:          "2:",
		{Start: 2, End: 10}: "2:10",
	} {
		if got := r.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", r, got, want)
		}
	}
}
