// Package effects provides the effect model the rest of effect_ive_analytics is built on.
//
// It has two halves.
//
// # Effect descriptors
//
// An Effect is a value describing asynchronous follow-up work produced by a
// pure transition function. Transition functions return effects instead of
// performing I/O, so they stay deterministic and testable:
//
//   - None: nothing to do
//   - Run / FireAndForget: one unit of work
//   - Merge: run several effects concurrently
//   - Concatenate: run several effects in order
//   - Map: lift a child feature's effect into its parent's action space
//
// Execute interprets an effect tree. It is normally called by a store, never
// by transition functions themselves.
//
// # Effect handlers
//
// Handlers are registered via `WithXxxEffectHandler(ctx)` and performed through
// `FireAndForgetEffect` or `PerformResumableEffect`. Each handler owns a set of
// worker goroutines fed through buffered channels; partitioned handlers route
// payloads by the xxhash of their PartitionKey so that per-key order is kept.
// Handler lifetime is bound to the returned teardown function.
//
// Example:
//
//	ctx, end := effects.WithFireAndForgetEffectHandler(ctx, 10, MyEnum, handle)
//	defer end()
//
//	effects.FireAndForgetEffect(ctx, MyEnum, payload)
package effects
