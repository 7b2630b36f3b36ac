package format

import (
	"fmt"
	"strings"
)

// Options control the layout choices of the engine. The engine reads no
// other configuration.
type Options struct {
	// CondenseBlankLines drops blank lines inside the block.
	CondenseBlankLines bool
	// AlignEndOfLine puts port list commas right after the name instead of
	// in front of the next port.
	AlignEndOfLine bool
}

// DefaultOptions: keep blank lines, trailing commas.
func DefaultOptions() Options {
	return Options{AlignEndOfLine: true}
}

// FormatBlock is Align without the report.
func FormatBlock(text string, opt Options) string {
	return Align(text, opt).Text
}

// CheckIdempotent formats text twice and verifies that the second pass does
// not change the output of the first.
func CheckIdempotent(text string, opt Options) (ok bool, msg string) {
	first := FormatBlock(text, opt)
	second := FormatBlock(first, opt)
	if first == second {
		return true, "fmt-check: OK"
	}
	a := strings.Split(first, "\n")
	b := strings.Split(second, "\n")
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return false, fmt.Sprintf("fmt-check: line %d changed on second pass: %q -> %q", i+1, a[i], b[i])
		}
	}
	return false, fmt.Sprintf("fmt-check: line count changed on second pass: %d -> %d", len(a), len(b))
}
