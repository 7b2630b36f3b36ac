// Package trace is the structured log of a vlalign run.
//
// A run opens a ScopeRun span, every input file gets a ScopeFile span and
// each engine call on a block a ScopePass span. Events go to a stream
// (text or NDJSON), to an in-memory ring that is dumped when the run ends,
// or to both. With LevelOff the package hands out a no-op tracer and spans
// cost a nil check.
//
//	vlalign fmt --trace=run.ndjson --trace-level=detail rtl/
//
// Spans travel through context.Context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(t, trace.ScopeFile, "format_file", trace.ParentID(ctx))
//	ctx = trace.WithSpan(ctx, span)
//	defer span.End("")
package trace
