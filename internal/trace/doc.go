// Package trace provides the tracing subsystem used by premap for
// operational logging.
//
// It records command, stage and per-file boundaries so slow or stuck batch
// runs can be diagnosed.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	premap index --trace=- --trace-level=detail build/*.i
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//   - RingTracer: Circular buffer for crash dumps
//   - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Driver and stage boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything including individual directives
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePass: Stages (load, scan, segment, render)
//   - ScopeFile: Per-input processing
//   - ScopeDirective: Individual line directives
//
// # Context Propagation
//
// Tracers are propagated via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "index")
//	defer span.End("")
//	file := span.Child(trace.ScopeFile, "file:in.i")
//	file.Point(trace.ScopeDirective, "segment", "#1 \"a.h\"")
//	file.Set("segments", "2").End("ok")
package trace
