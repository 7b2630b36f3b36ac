package driver

import (
	"vlalign/internal/format"
	"vlalign/internal/source"
)

// RunFmtCheck formats the selected block of sf twice and verifies that the
// second pass is a no-op. It returns (ok, report string).
func RunFmtCheck(sf *source.File, sel source.LineRange, opt format.Options) (success bool, msg string) {
	block, _, _, err := sf.Select(sel)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	return format.CheckIdempotent(block, opt)
}
