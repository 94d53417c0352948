// Package binding keeps plain containers content-identical to an observable
// collection by replaying its change events.
//
// A binding is one-directional: the source is an observable.Observable and
// the target is anything implementing Target. Binding never copies the
// initial state; the caller synchronizes first and Bind checks that the
// target already matches the source. From then on every event is replayed
// as primitive mutations, so keeping a target current costs O(batch) per
// event rather than a re-scan of the source.
//
// # Replay
//
// Added - items inserted one by one at Index+i
//
// Removed - items removed from the highest position down to Index, so
// earlier removals never shift the positions of later ones
//
// Replaced - items overwritten at Index+i
//
// Moved - the item relocated from OldIndex to Index
//
// Cleared - target cleared
//
// Every target bound to a source is replayed independently in bind order. A
// target that rejects a replay yields a *ReplicationError; siblings are still
// replayed. Failures are reported through the engine's observer and error
// handler and only returned to the mutating caller when the engine is
// configured with WithFailOnReplicationError.
//
// The engine holds no locks and starts no goroutines. All replay happens on
// the goroutine that mutated the source.
package binding
