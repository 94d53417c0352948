// Package observable provides mutable collections that publish a
// change.Event for every structural mutation.
//
// # Collections
//
// List - ordered, indexable; Add, AddRange, Insert, Remove, RemoveAt, Set, Move, Clear
//
// Set - insertion-ordered unique items; Add, AddRange, Remove, Clear
//
// Dictionary - insertion-ordered key/value pairs; Add, Set, Remove, Clear
//
// Stack - LIFO over an ordered store; Push, PushRange, Pop, Clear
//
// Every kind keeps a deterministic enumeration order, so every event carries
// the real position of the affected items and a replay target can apply it
// without searching.
//
// # Dispatch
//
// A mutation first updates storage, then calls every subscribed Handler
// once, synchronously, in subscription order. A failing handler does not
// stop the others: errors (and recovered panics) are collected and returned
// from the mutating call as an *AggregatedSubscriberError after all
// handlers ran. The mutation itself is never rolled back.
//
//	list := observable.NewListFrom([]string{"a", "b", "c"})
//	sub := list.Subscribe(observable.HandlerFunc[string](
//	    func(sender observable.Observable[string], ev change.Event[string]) error {
//	        fmt.Println(ev)
//	        return nil
//	    }))
//	defer list.Unsubscribe(sub)
//
//	if err := list.RemoveAt(1); err != nil {
//	    var agg *observable.AggregatedSubscriberError
//	    if errors.As(err, &agg) {
//	        // "b" is gone; some handler failed
//	    }
//	}
//
// The only exception to storage-first ordering is Clear on a collection
// created with WithReportClearAsRemove(true): the Remove event listing every
// item is published while the items are still present, then storage is
// cleared.
//
// # Concurrency
//
// Collections are not safe for concurrent use. Mutating the same collection
// from more than one goroutine is a caller bug; no locking is done here.
// Handlers run on the mutating goroutine and must not mutate the collection
// that is notifying them.
package observable
