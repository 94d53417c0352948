package change

import "slices"

// Equal reports whether two events are structurally identical: same
// variant, same positions and the same items in the same order.
func Equal[T comparable](a, b Event[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is Equal with a caller-supplied item comparison.
func EqualFunc[T any](a, b Event[T], eq func(x, y T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Action() != b.Action() || a.Index() != b.Index() {
		return false
	}
	if am, ok := a.(origin); ok {
		bm, ok := b.(origin)
		if !ok || am.OldIndex() != bm.OldIndex() {
			return false
		}
	}
	return slices.EqualFunc(a.OldItems(), b.OldItems(), eq) &&
		slices.EqualFunc(a.NewItems(), b.NewItems(), eq)
}

// origin is satisfied by Moved and *Moved.
type origin interface {
	OldIndex() int
}
