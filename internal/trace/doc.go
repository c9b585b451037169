// Package trace records what the generator is doing.
//
// Tracing is enabled from the command line:
//
//	svreg generate --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last events in memory and dumps them on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and stage spans, LevelDetail adds one span per
// register block and LevelDebug adds one span per generated artifact.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeBlock, "block:foo", parentID)
//	defer span.End("")
package trace
