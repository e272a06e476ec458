// Package analytics derives telemetry events from reducer transitions.
//
// A Client is the sink every wrapper dispatches to. The wrappers never touch
// state themselves; they only append fire-and-forget effects that call
// Client.Dispatch when the store executes them.
//
//   - Reduce derives at most one event per transition.
//   - ReduceMultiple derives an ordered sequence, dispatched one after another.
//   - OnChange diffs a projection of the state before and after a base reducer.
//
// Where a wrapper sits in a reducer.Combine chain decides which state it
// observes: placed after the feature's reducer it sees the post-transition state.
package analytics
