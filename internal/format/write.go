package format

import (
	"github.com/mattn/go-runewidth"
)

// Writer accumulates formatted output and provides helpers for padding
// fields to display columns.
type Writer struct {
	buf       []byte
	lineStart int
	lines     int
}

// NewWriter creates a new formatting writer with the given capacity hint.
func NewWriter(sizeHint int) *Writer {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// String returns the accumulated formatted output.
func (w *Writer) String() string {
	return string(w.buf)
}

// WriteString writes a string to the output.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.buf = append(w.buf, s...)
}

// WriteByte writes a single byte to the output.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	if b == '\n' {
		w.lineStart = len(w.buf)
	}
	return nil
}

// Pad writes s followed by blanks up to width display columns. Text wider
// than width is written whole.
func (w *Writer) Pad(s string, width int) {
	w.WriteString(s)
	for n := width - runewidth.StringWidth(s); n > 0; n-- {
		w.buf = append(w.buf, ' ')
	}
}

// PadLeft writes blanks followed by s so that s ends at width columns.
func (w *Writer) PadLeft(s string, width int) {
	for n := width - runewidth.StringWidth(s); n > 0; n-- {
		w.buf = append(w.buf, ' ')
	}
	w.WriteString(s)
}

// Line starts a new output line. The first call writes nothing, so lines
// end up joined by '\n' without a trailing newline.
func (w *Writer) Line(s string) {
	if w.lines > 0 {
		_ = w.WriteByte('\n')
	}
	w.lines++
	w.WriteString(s)
}

// TrimLineEnd drops blanks at the end of the current line.
func (w *Writer) TrimLineEnd() {
	end := len(w.buf)
	for end > w.lineStart && (w.buf[end-1] == ' ' || w.buf[end-1] == '\t') {
		end--
	}
	w.buf = w.buf[:end]
}
