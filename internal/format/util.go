package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	wsRun      = regexp.MustCompile(`\s{2,}`)
	anyWS      = regexp.MustCompile(`\s+`)
	commaSpace = regexp.MustCompile(`\s*,\s*`)
)

// normalize trims s and collapses runs of 2+ whitespace to one space.
func normalize(s string) string {
	return wsRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// normalizeList rewrites separators of a comma list as ", ".
func normalizeList(s string) string {
	return strings.TrimSpace(commaSpace.ReplaceAllString(s, ", "))
}

// leadingSpace returns the indentation of line.
func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func padRight(s string, width int) string {
	if n := width - displayWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - displayWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// splitComment separates the code part of a line from its "//" comment.
// The comment keeps its exact text.
func splitComment(line string) (code, comment string) {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i], line[i:]
	}
	return line, ""
}
