package observable

import (
	"slices"

	"github.com/tailored-agentic-units/observable/change"
)

// Stack is a LIFO observable collection. Items enumerate bottom to top, so
// the top of the stack is always at index Len()-1 in events.
type Stack[T any] struct {
	base[T]
	items []T
}

func NewStack[T any](opts ...Option) *Stack[T] {
	return NewStackFrom[T](nil, opts...)
}

// NewStackFrom creates a Stack from items ordered bottom to top.
func NewStackFrom[T any](items []T, opts ...Option) *Stack[T] {
	s := &Stack[T]{items: slices.Clone(items)}
	s.base = newBase[T]("stack", s, opts)
	s.created(len(s.items))
	return s
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Items returns the contents bottom to top.
func (s *Stack[T]) Items() []T {
	return slices.Clone(s.items)
}

// Push places item on top and publishes Add at the new top index.
func (s *Stack[T]) Push(item T) error {
	return s.PushRange(item)
}

// PushRange pushes items in order, so the last one ends on top, and
// publishes a single Add event.
func (s *Stack[T]) PushRange(items ...T) error {
	if len(items) == 0 {
		return nil
	}

	ev, err := change.NewAdd(len(s.items), items...)
	if err != nil {
		return err
	}
	s.items = append(s.items, items...)
	return s.publish(ev)
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Pop removes the top item and publishes Remove. It returns ErrEmpty on an
// empty stack. The popped item is returned even if a handler failed.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmpty
	}

	top := len(s.items) - 1
	item := s.items[top]
	ev, err := change.NewRemove(top, item)
	if err != nil {
		return zero, err
	}
	s.items[top] = zero
	s.items = s.items[:top]
	return item, s.publish(ev)
}

func (s *Stack[T]) Clear() error {
	return s.clear(s.items, func() { s.items = nil })
}
