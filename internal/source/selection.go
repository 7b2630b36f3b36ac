package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadRange is returned for line ranges that do not fit the file.
var ErrBadRange = errors.New("bad line range")

// LineRange is a 1-based inclusive range of lines. End == 0 means "to the
// last line". The zero value selects the whole file.
type LineRange struct {
	Start int
	End   int
}

func (r LineRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

func (r LineRange) String() string {
	if r.IsZero() {
		return ":"
	}
	if r.End == 0 {
		return strconv.Itoa(r.Start) + ":"
	}
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// ParseLineRange parses "a:b", "a:", ":b" or a single line "a".
func ParseLineRange(s string) (LineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LineRange{}, nil
	}
	left, right, hasColon := strings.Cut(s, ":")
	var r LineRange
	var err error
	if left != "" {
		if r.Start, err = strconv.Atoi(strings.TrimSpace(left)); err != nil {
			return LineRange{}, fmt.Errorf("%w %q: %w", ErrBadRange, s, err)
		}
	} else {
		r.Start = 1
	}
	switch {
	case !hasColon:
		r.End = r.Start
	case right != "":
		if r.End, err = strconv.Atoi(strings.TrimSpace(right)); err != nil {
			return LineRange{}, fmt.Errorf("%w %q: %w", ErrBadRange, s, err)
		}
	}
	if r.Start < 1 || r.End < 0 || (r.End != 0 && r.End < r.Start) {
		return LineRange{}, fmt.Errorf("%w %q", ErrBadRange, s)
	}
	return r, nil
}

// Select returns the text of the lines in r together with its byte offsets
// in Content. The last selected line keeps its '\n'. An End past the last
// line is clamped.
func (f *File) Select(r LineRange) (block string, start, end int, err error) {
	if r.IsZero() {
		return string(f.Content), 0, len(f.Content), nil
	}
	n := f.LineCount()
	if r.Start < 1 || r.Start > n {
		return "", 0, 0, fmt.Errorf("%w %s: file has %d lines", ErrBadRange, r, n)
	}
	last := r.End
	if last == 0 || last > n {
		last = n
	}
	if last < r.Start {
		return "", 0, 0, fmt.Errorf("%w %s", ErrBadRange, r)
	}
	start = f.lineStart(r.Start)
	end = len(f.Content)
	if last-1 < len(f.LineIdx) {
		end = int(f.LineIdx[last-1]) + 1
	}
	return string(f.Content[start:end]), start, end, nil
}

// Splice returns a copy of Content with [start, end) replaced by block.
func (f *File) Splice(start, end int, block string) []byte {
	out := make([]byte, 0, len(f.Content)-(end-start)+len(block))
	out = append(out, f.Content[:start]...)
	out = append(out, block...)
	out = append(out, f.Content[end:]...)
	return out
}
