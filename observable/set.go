package observable

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/observable/change"
)

// Set is an observable collection of unique items that enumerates in
// insertion order.
type Set[T comparable] struct {
	base[T]
	order   []T
	members map[T]struct{}
}

// NewSet creates an empty Set.
func NewSet[T comparable](opts ...Option) *Set[T] {
	return NewSetFrom[T](nil, opts...)
}

// NewSetFrom creates a Set seeded with items; duplicates keep their first
// position.
func NewSetFrom[T comparable](items []T, opts ...Option) *Set[T] {
	s := &Set[T]{members: make(map[T]struct{}, len(items))}
	s.base = newBase[T]("set", s, opts)
	s.order = s.fresh(items)
	for _, item := range s.order {
		s.members[item] = struct{}{}
	}
	s.created(len(s.order))
	return s
}

func (s *Set[T]) Len() int {
	return len(s.order)
}

func (s *Set[T]) Items() []T {
	return slices.Clone(s.order)
}

func (s *Set[T]) Contains(item T) bool {
	_, ok := s.members[item]
	return ok
}

// Add inserts item at the end of the enumeration order. It reports false,
// and publishes nothing, when item is already present.
func (s *Set[T]) Add(item T) (bool, error) {
	n, err := s.AddRange(item)
	return n == 1, err
}

// AddRange inserts the items not yet present as one Add event and returns
// how many were added.
func (s *Set[T]) AddRange(items ...T) (int, error) {
	added := s.fresh(items)
	if len(added) == 0 {
		return 0, nil
	}

	ev, err := change.NewAdd(len(s.order), added...)
	if err != nil {
		return 0, err
	}
	s.order = append(s.order, added...)
	for _, item := range added {
		s.members[item] = struct{}{}
	}
	return len(added), s.publish(ev)
}

// Remove deletes item and publishes Remove at its enumeration position.
func (s *Set[T]) Remove(item T) error {
	if !s.Contains(item) {
		return fmt.Errorf("%w: %v", ErrNotFound, item)
	}

	index := slices.Index(s.order, item)
	ev, err := change.NewRemove(index, item)
	if err != nil {
		return err
	}
	s.order = slices.Delete(s.order, index, index+1)
	delete(s.members, item)
	return s.publish(ev)
}

func (s *Set[T]) Clear() error {
	return s.clear(s.order, func() {
		s.order = nil
		clear(s.members)
	})
}

// fresh filters items down to those not in the set, without repeats.
func (s *Set[T]) fresh(items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := s.members[item]; ok {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
