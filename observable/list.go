package observable

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/observable/change"
)

// List is an ordered, indexable observable collection.
type List[T comparable] struct {
	base[T]
	items []T
}

// NewList creates an empty List.
func NewList[T comparable](opts ...Option) *List[T] {
	return NewListFrom[T](nil, opts...)
}

// NewListFrom creates a List seeded with a copy of items. Seeding publishes
// no change event.
func NewListFrom[T comparable](items []T, opts ...Option) *List[T] {
	l := &List[T]{items: slices.Clone(items)}
	l.base = newBase[T]("list", l, opts)
	l.created(len(l.items))
	return l
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the contents.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// At returns the item at index.
func (l *List[T]) At(index int) (T, error) {
	if err := l.checkIndex(index, len(l.items)); err != nil {
		var zero T
		return zero, err
	}
	return l.items[index], nil
}

// IndexOf returns the position of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) int {
	return slices.Index(l.items, item)
}

// Contains reports whether item is present.
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add appends item and publishes Add at the old length.
func (l *List[T]) Add(item T) error {
	return l.InsertRange(len(l.items), item)
}

// AddRange appends items and publishes a single Add event carrying all of
// them, indexed at the first new position. An empty batch publishes nothing.
func (l *List[T]) AddRange(items ...T) error {
	return l.InsertRange(len(l.items), items...)
}

// Insert places item at index, shifting later items up.
func (l *List[T]) Insert(index int, item T) error {
	return l.InsertRange(index, item)
}

// InsertRange places items at index as one contiguous run and publishes a
// single Add event.
func (l *List[T]) InsertRange(index int, items ...T) error {
	if err := l.checkIndex(index, len(l.items)+1); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	ev, err := change.NewAdd(index, items...)
	if err != nil {
		return err
	}
	l.items = slices.Insert(l.items, index, items...)
	return l.publish(ev)
}

// Remove deletes the first occurrence of item. It returns ErrNotFound, and
// publishes nothing, if item is absent.
func (l *List[T]) Remove(item T) error {
	index := l.IndexOf(item)
	if index < 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, item)
	}
	return l.RemoveRange(index, 1)
}

// RemoveAt deletes the item at index.
func (l *List[T]) RemoveAt(index int) error {
	return l.RemoveRange(index, 1)
}

// RemoveRange deletes count items starting at index and publishes a single
// Remove event. The whole range must exist; otherwise nothing is removed.
func (l *List[T]) RemoveRange(index, count int) error {
	if count < 0 || index < 0 || index+count > len(l.items) {
		return fmt.Errorf("%w: range [%d, %d) of %d", ErrIndexOutOfRange, index, index+count, len(l.items))
	}
	if count == 0 {
		return nil
	}

	ev, err := change.NewRemove(index, l.items[index:index+count]...)
	if err != nil {
		return err
	}
	l.items = slices.Delete(l.items, index, index+count)
	return l.publish(ev)
}

// Set replaces the item at index and publishes Replace.
func (l *List[T]) Set(index int, item T) error {
	if err := l.checkIndex(index, len(l.items)); err != nil {
		return err
	}

	ev, err := change.NewReplace(index, []T{l.items[index]}, []T{item})
	if err != nil {
		return err
	}
	l.items[index] = item
	return l.publish(ev)
}

// Move relocates the item at from so that it ends up at to, and publishes
// Move. Moving onto the same position is a no-op.
func (l *List[T]) Move(from, to int) error {
	if err := l.checkIndex(from, len(l.items)); err != nil {
		return err
	}
	if err := l.checkIndex(to, len(l.items)); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	item := l.items[from]
	ev, err := change.NewMove(item, from, to)
	if err != nil {
		return err
	}
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, item)
	return l.publish(ev)
}

// Clear removes every item. See WithReportClearAsRemove for the event
// published.
func (l *List[T]) Clear() error {
	return l.clear(l.items, func() { l.items = nil })
}

func (l *List[T]) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}
