// Package diag defines the diagnostic model used by premap and by tools that
// report problems against preprocessed buffers.
//
// # Purpose
//
//   - Provide plain data structures that capture findings against a flattened
//     buffer: severity, code, message, labelled spans and notes.
//   - Offer light-weight utilities (Reporter, Bag, Context) that let producers
//     emit diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Spans stay in flattened
// coordinates; rendering (and resolution to original file/line through a
// codemap.Locator) lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – Help, Note, Warning, Error or Bug (severity.go). Bug counts as
//     an error.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     UnknownCode means "no code" and is not printed.
//   - Message – human oriented text; keep it short and actionable.
//   - Labels – primary and secondary spans, each with an optional message
//     carried as source.Located[string].
//   - Notes – free-form trailing lines.
//
// Diagnostics are built by value:
//
//	d := diag.Error().
//		WithCode(diag.UserReport).
//		WithMessage("unexpected token").
//		WithPrimaryLabel(span, "here").
//		WithNote("expected an identifier")
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter. ReportBuilder (ReportError/ReportWarning/
// ReportNote) chains label and note helpers before Emit. BagReporter collects
// into a Bag, which supports sorting and deduplication; DedupReporter filters
// repeated reports before forwarding.
//
// Context keeps the error and warning tallies of a run. diagfmt.Emitter counts
// every diagnostic it renders into a Context, and EmitStatus closes the run
// with "N warnings emitted" / "N errors emitted".
package diag
