// Package pipeline implements the cross-cutting decorator chain that
// wraps every command and query handler. The chain is composed at
// startup in a fixed order, outermost to innermost:
//
//	Logging → Validation → Caching → Handler
//
// Each stage may short-circuit (skip calling the next stage) but
// otherwise calls the next stage exactly once and propagates its result
// or failure unchanged. No stage converts one failure kind into another.
package pipeline
