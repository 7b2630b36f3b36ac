// Package diag defines the diagnostic model shared by the formatter driver
// and the CLI.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while
//     formatting: untouched lines, range mismatches, idempotence failures,
//     I/O and configuration errors.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or rendering.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – numeric identifier with a stable ID such as FMT1001 (codes.go).
//   - Message – short human oriented text.
//   - Primary – source.Span of the line or block the finding is about.
//   - Notes – optional secondary spans/messages.
//   - Fixes – optional text edits; the driver attaches the aligned block as a
//     fix when --check finds a block that is not aligned.
//
// # Emitting diagnostics
//
// Producers build diagnostics with ReportInfo/ReportWarning/ReportError and
// Emit them into a Reporter. BagReporter stores them in a bounded Bag that
// can be sorted and filtered by severity; DedupReporter in front of it drops
// repeats. FormatShortDiagnostics renders diagnostics one per line for the
// CLI and for tests.
package diag
