// Package change defines the event model shared by observable collections,
// read-only views and the binding engine.
//
// An Event describes exactly one structural mutation with enough detail to
// replay it against another container. Events are a closed sum type: each
// action has its own variant carrying only the fields that action needs.
//
// # Variants
//
// Added - items inserted as one contiguous run starting at Index
//
// Removed - items removed as one contiguous run that started at Index
//
// Replaced - items overwritten in place starting at Index
//
// Moved - a single item relocated from OldIndex to Index
//
// Cleared - all items dropped; carries no items
//
// Consumers switch on the concrete type:
//
//	switch ev := ev.(type) {
//	case change.Added[string]:
//	    insertAt(ev.Index(), ev.NewItems())
//	case change.Removed[string]:
//	    removeRun(ev.Index(), len(ev.OldItems()))
//	case change.Cleared[string]:
//	    reset()
//	}
//
// Events are immutable. Item accessors return fresh slices, so callers may
// keep or modify what they receive without affecting other subscribers.
package change
