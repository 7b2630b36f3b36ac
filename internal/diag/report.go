package diag

import "vlalign/internal/source"

// Reporter receives finished diagnostics from the driver.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores into a bounded Bag; diagnostics past the limit are dropped.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type seenKey struct {
	code    Code
	sev     Severity
	span    source.Span
	message string
}

// DedupReporter forwards a diagnostic only the first time its code,
// severity, primary span and message are seen.
type DedupReporter struct {
	next Reporter
	seen map[seenKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[seenKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := seenKey{code: d.Code, sev: d.Severity, span: d.Primary, message: d.Message}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

// Pending is a diagnostic under construction. Emit sends it once;
// further calls are ignored.
type Pending struct {
	r    Reporter
	d    Diagnostic
	sent bool
}

func Report(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{r: r, d: New(sev, code, primary, msg)}
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Report(r, SevInfo, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Report(r, SevWarning, code, primary, msg)
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Report(r, SevError, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d = p.d.WithNote(sp, msg)
	return p
}

func (p *Pending) WithFix(title string, edits ...FixEdit) *Pending {
	p.d = p.d.WithFix(title, edits...)
	return p
}

func (p *Pending) Emit() {
	if p.sent || p.r == nil {
		return
	}
	p.sent = true
	p.r.Report(p.d)
}
