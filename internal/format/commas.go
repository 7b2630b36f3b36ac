package format

import "strings"

// stripSeparator removes the list separator commas around the code of a
// port line: a leading ", " (leading-comma style) and a trailing ","
// including the "a, // note" form. The comment is kept as is.
func stripSeparator(line string) string {
	code, comment := splitComment(line)
	indent := leadingSpace(code)
	body := strings.TrimSpace(code)
	body = strings.TrimSpace(strings.TrimPrefix(body, ","))
	body = strings.TrimSpace(strings.TrimSuffix(body, ","))
	if comment == "" {
		return indent + body
	}
	if body == "" {
		return indent + comment
	}
	return indent + body + " " + comment
}

// placeCommas applies the port list comma policy to the aligned lines.
//
// endOfLine: every port but the last gets "," right after its name.
// Otherwise every port but the first gets "," in the separator column.
// The last port never ends with a comma.
func placeCommas(lines []Line, endOfLine bool) []Line {
	var ports []int
	for i, l := range lines {
		if _, ok := l.(Aligned); ok {
			ports = append(ports, i)
		}
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	for k, i := range ports {
		a := out[i].(Aligned)
		switch {
		case endOfLine && k < len(ports)-1:
			out[i] = a.With(ioName, a.Field(ioName)+",")
		case !endOfLine && k > 0:
			out[i] = a.With(ioSep, ",")
		}
	}
	return out
}
