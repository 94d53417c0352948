// Package view provides read-only facades over observable collections.
//
// A ReadOnly view forwards every event of its source to its own subscribers
// and reads contents straight from the source while open; it keeps no copy.
// Close detaches it permanently:
//
//	Open --Close()--> Closed
//
// There is no way back. A closed view serves the snapshot taken at close
// time, never fires again, and drops its reference to the source, so a view
// can never observe a source it has been detached from.
//
//	list := observable.NewListFrom([]int{1, 2})
//	ro, err := view.New[int](list)
//	...
//	ro.Close()
//	list.Add(3) // ro.Items() is still [1 2]
package view
