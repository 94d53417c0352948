package change

import (
	"fmt"
	"slices"
)

// Event is a single structural mutation of a collection of T.
//
// The interface is sealed; the only implementations are Added, Removed,
// Replaced, Moved and Cleared.
type Event[T any] interface {
	// Action reports which variant this is.
	Action() Action
	// Index is the position of the first affected item. For Moved it is
	// the destination. Cleared reports NoIndex.
	Index() int
	// OldItems returns the items that left the collection, in order.
	OldItems() []T
	// NewItems returns the items that entered the collection, in order.
	NewItems() []T

	sealed()
}

// Added records items inserted as one contiguous run.
type Added[T any] struct {
	index int
	items []T
}

// NewAdd creates an Added event. At least one item is required.
func NewAdd[T any](index int, items ...T) (Added[T], error) {
	if index < 0 {
		return Added[T]{}, fmt.Errorf("%w: add at negative index %d", ErrInvalidEvent, index)
	}
	if len(items) == 0 {
		return Added[T]{}, fmt.Errorf("%w: add without items", ErrInvalidEvent)
	}
	return Added[T]{index: index, items: slices.Clone(items)}, nil
}

func (Added[T]) Action() Action   { return ActionAdd }
func (e Added[T]) Index() int     { return e.index }
func (Added[T]) OldItems() []T    { return nil }
func (e Added[T]) NewItems() []T  { return slices.Clone(e.items) }
func (e Added[T]) Len() int       { return len(e.items) }
func (e Added[T]) At(i int) T     { return e.items[i] }
func (Added[T]) sealed()          {}
func (e Added[T]) String() string { return describe[T](e) }

// Removed records items removed as one contiguous run. Index is where the
// run started before removal.
type Removed[T any] struct {
	index int
	items []T
}

// NewRemove creates a Removed event. At least one item is required.
func NewRemove[T any](index int, items ...T) (Removed[T], error) {
	if index < 0 {
		return Removed[T]{}, fmt.Errorf("%w: remove at negative index %d", ErrInvalidEvent, index)
	}
	if len(items) == 0 {
		return Removed[T]{}, fmt.Errorf("%w: remove without items", ErrInvalidEvent)
	}
	return Removed[T]{index: index, items: slices.Clone(items)}, nil
}

func (Removed[T]) Action() Action   { return ActionRemove }
func (e Removed[T]) Index() int     { return e.index }
func (e Removed[T]) OldItems() []T  { return slices.Clone(e.items) }
func (Removed[T]) NewItems() []T    { return nil }
func (e Removed[T]) Len() int       { return len(e.items) }
func (e Removed[T]) At(i int) T     { return e.items[i] }
func (Removed[T]) sealed()          {}
func (e Removed[T]) String() string { return describe[T](e) }

// Replaced records items overwritten in place. OldItems and NewItems always
// have the same length.
type Replaced[T any] struct {
	index    int
	oldItems []T
	newItems []T
}

// NewReplace creates a Replaced event. oldItems and newItems must be
// non-empty and of equal length.
func NewReplace[T any](index int, oldItems, newItems []T) (Replaced[T], error) {
	if index < 0 {
		return Replaced[T]{}, fmt.Errorf("%w: replace at negative index %d", ErrInvalidEvent, index)
	}
	if len(oldItems) == 0 || len(newItems) == 0 {
		return Replaced[T]{}, fmt.Errorf("%w: replace without items", ErrInvalidEvent)
	}
	if len(oldItems) != len(newItems) {
		return Replaced[T]{}, fmt.Errorf("%w: replace arity %d != %d", ErrInvalidEvent, len(oldItems), len(newItems))
	}
	return Replaced[T]{
		index:    index,
		oldItems: slices.Clone(oldItems),
		newItems: slices.Clone(newItems),
	}, nil
}

func (Replaced[T]) Action() Action   { return ActionReplace }
func (e Replaced[T]) Index() int     { return e.index }
func (e Replaced[T]) OldItems() []T  { return slices.Clone(e.oldItems) }
func (e Replaced[T]) NewItems() []T  { return slices.Clone(e.newItems) }
func (e Replaced[T]) Len() int       { return len(e.newItems) }
func (e Replaced[T]) OldAt(i int) T  { return e.oldItems[i] }
func (e Replaced[T]) NewAt(i int) T  { return e.newItems[i] }
func (Replaced[T]) sealed()          {}
func (e Replaced[T]) String() string { return describe[T](e) }

// Moved records one item relocated within an ordered collection.
type Moved[T any] struct {
	item T
	from int
	to   int
}

// NewMove creates a Moved event. Moving an item onto its own position is
// not a change and is rejected.
func NewMove[T any](item T, from, to int) (Moved[T], error) {
	if from < 0 || to < 0 {
		return Moved[T]{}, fmt.Errorf("%w: move %d -> %d", ErrInvalidEvent, from, to)
	}
	if from == to {
		return Moved[T]{}, fmt.Errorf("%w: move onto same index %d", ErrInvalidEvent, from)
	}
	return Moved[T]{item: item, from: from, to: to}, nil
}

func (Moved[T]) Action() Action   { return ActionMove }
func (e Moved[T]) Index() int     { return e.to }
func (e Moved[T]) OldIndex() int  { return e.from }
func (e Moved[T]) Item() T        { return e.item }
func (e Moved[T]) OldItems() []T  { return []T{e.item} }
func (e Moved[T]) NewItems() []T  { return []T{e.item} }
func (Moved[T]) sealed()          {}
func (e Moved[T]) String() string { return fmt.Sprintf("move %d -> %d %v", e.from, e.to, e.item) }

// Cleared records that every item was dropped. The dropped items are not
// enumerated; collections configured to report clear as remove emit a
// Removed event instead.
type Cleared[T any] struct{}

// NewClear creates a Cleared event.
func NewClear[T any]() Cleared[T] {
	return Cleared[T]{}
}

func (Cleared[T]) Action() Action { return ActionClear }
func (Cleared[T]) Index() int     { return NoIndex }
func (Cleared[T]) OldItems() []T  { return nil }
func (Cleared[T]) NewItems() []T  { return nil }
func (Cleared[T]) sealed()        {}
func (Cleared[T]) String() string { return "clear" }

func describe[T any](e Event[T]) string {
	switch e.Action() {
	case ActionAdd:
		return fmt.Sprintf("add @%d %v", e.Index(), e.NewItems())
	case ActionRemove:
		return fmt.Sprintf("remove @%d %v", e.Index(), e.OldItems())
	default:
		return fmt.Sprintf("%s @%d %v -> %v", e.Action(), e.Index(), e.OldItems(), e.NewItems())
	}
}
