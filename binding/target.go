package binding

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/observable"
)

// Target is a plain container that can receive replayed mutations.
//
// Positional methods receive both the position and the item so unordered
// targets can ignore the index and ordered targets can ignore the item. A
// method returns an error wrapping ErrOutOfSync when the target's shape no
// longer allows the replay, and must leave the target unchanged in that case.
// The engine replays batches one primitive at a time and undoes the applied
// primitives of a batch when a later one is rejected.
type Target[T any] interface {
	// ID is a stable handle used as the registry key.
	ID() uuid.UUID
	Len() int
	// Matches reports whether the target holds exactly items. Ordered
	// targets compare in order; unordered targets compare contents.
	Matches(items []T, eq func(a, b T) bool) bool

	Insert(index int, item T) error
	RemoveAt(index int, item T) error
	Replace(index int, oldItem, newItem T) error
	Move(from, to int, item T) error
	Clear() error
}

// SliceTarget replicates into a caller-owned slice. The slice header is
// updated through the pointer, so the caller always sees current contents.
type SliceTarget[T any] struct {
	id    uuid.UUID
	items *[]T
}

// NewSliceTarget wraps s. A nil pointer is replaced by a fresh empty slice.
func NewSliceTarget[T any](s *[]T) *SliceTarget[T] {
	if s == nil {
		s = new([]T)
	}
	return &SliceTarget[T]{id: uuid.Must(uuid.NewV7()), items: s}
}

func (t *SliceTarget[T]) ID() uuid.UUID { return t.id }
func (t *SliceTarget[T]) Len() int      { return len(*t.items) }

// Items returns a copy of the current contents.
func (t *SliceTarget[T]) Items() []T {
	return slices.Clone(*t.items)
}

func (t *SliceTarget[T]) Matches(items []T, eq func(a, b T) bool) bool {
	return slices.EqualFunc(*t.items, items, eq)
}

func (t *SliceTarget[T]) Insert(index int, item T) error {
	if index < 0 || index > len(*t.items) {
		return outOfRange("insert", index, len(*t.items))
	}
	*t.items = slices.Insert(*t.items, index, item)
	return nil
}

func (t *SliceTarget[T]) RemoveAt(index int, _ T) error {
	if err := t.check("remove", index); err != nil {
		return err
	}
	*t.items = slices.Delete(*t.items, index, index+1)
	return nil
}

func (t *SliceTarget[T]) Replace(index int, _, newItem T) error {
	if err := t.check("replace", index); err != nil {
		return err
	}
	(*t.items)[index] = newItem
	return nil
}

func (t *SliceTarget[T]) Move(from, to int, _ T) error {
	if err := t.check("move from", from); err != nil {
		return err
	}
	if err := t.check("move to", to); err != nil {
		return err
	}
	item := (*t.items)[from]
	*t.items = slices.Insert(slices.Delete(*t.items, from, from+1), to, item)
	return nil
}

func (t *SliceTarget[T]) Clear() error {
	clear(*t.items)
	*t.items = (*t.items)[:0]
	return nil
}

func (t *SliceTarget[T]) check(op string, index int) error {
	if index < 0 || index >= len(*t.items) {
		return outOfRange(op, index, len(*t.items))
	}
	return nil
}

// MapTarget replicates dictionary pairs into a caller-owned map. Positions
// are ignored and Move is a no-op.
type MapTarget[K comparable, V any] struct {
	id uuid.UUID
	m  map[K]V
}

// NewMapTarget wraps m. A nil map is replaced by a fresh one; use Map to
// read it back.
func NewMapTarget[K comparable, V any](m map[K]V) *MapTarget[K, V] {
	if m == nil {
		m = make(map[K]V)
	}
	return &MapTarget[K, V]{id: uuid.Must(uuid.NewV7()), m: m}
}

func (t *MapTarget[K, V]) ID() uuid.UUID { return t.id }
func (t *MapTarget[K, V]) Len() int      { return len(t.m) }

// Map returns the underlying map.
func (t *MapTarget[K, V]) Map() map[K]V {
	return t.m
}

func (t *MapTarget[K, V]) Matches(items []change.Pair[K, V], eq func(a, b change.Pair[K, V]) bool) bool {
	if len(items) != len(t.m) {
		return false
	}
	for _, p := range items {
		v, ok := t.m[p.Key]
		if !ok || !eq(p, change.PairOf(p.Key, v)) {
			return false
		}
	}
	return true
}

func (t *MapTarget[K, V]) Insert(_ int, item change.Pair[K, V]) error {
	if _, ok := t.m[item.Key]; ok {
		return fmt.Errorf("%w: %w: %v", ErrOutOfSync, observable.ErrKeyExists, item.Key)
	}
	t.m[item.Key] = item.Value
	return nil
}

func (t *MapTarget[K, V]) RemoveAt(_ int, item change.Pair[K, V]) error {
	if _, ok := t.m[item.Key]; !ok {
		return missing(item.Key)
	}
	delete(t.m, item.Key)
	return nil
}

func (t *MapTarget[K, V]) Replace(_ int, oldItem, newItem change.Pair[K, V]) error {
	if _, ok := t.m[oldItem.Key]; !ok {
		return missing(oldItem.Key)
	}
	if oldItem.Key != newItem.Key {
		delete(t.m, oldItem.Key)
	}
	t.m[newItem.Key] = newItem.Value
	return nil
}

func (t *MapTarget[K, V]) Move(int, int, change.Pair[K, V]) error {
	return nil
}

func (t *MapTarget[K, V]) Clear() error {
	clear(t.m)
	return nil
}

// SetTarget replicates set members into a caller-owned map used as a set.
// Positions are ignored and Move is a no-op.
type SetTarget[T comparable] struct {
	id uuid.UUID
	m  map[T]struct{}
}

// NewSetTarget wraps m. A nil map is replaced by a fresh one.
func NewSetTarget[T comparable](m map[T]struct{}) *SetTarget[T] {
	if m == nil {
		m = make(map[T]struct{})
	}
	return &SetTarget[T]{id: uuid.Must(uuid.NewV7()), m: m}
}

func (t *SetTarget[T]) ID() uuid.UUID { return t.id }
func (t *SetTarget[T]) Len() int      { return len(t.m) }

// Contains reports whether item is a member.
func (t *SetTarget[T]) Contains(item T) bool {
	_, ok := t.m[item]
	return ok
}

func (t *SetTarget[T]) Matches(items []T, _ func(a, b T) bool) bool {
	if len(items) != len(t.m) {
		return false
	}
	for _, item := range items {
		if _, ok := t.m[item]; !ok {
			return false
		}
	}
	return true
}

func (t *SetTarget[T]) Insert(_ int, item T) error {
	if _, ok := t.m[item]; ok {
		return fmt.Errorf("%w: %w: %v", ErrOutOfSync, observable.ErrKeyExists, item)
	}
	t.m[item] = struct{}{}
	return nil
}

func (t *SetTarget[T]) RemoveAt(_ int, item T) error {
	if _, ok := t.m[item]; !ok {
		return missing(item)
	}
	delete(t.m, item)
	return nil
}

func (t *SetTarget[T]) Replace(_ int, oldItem, newItem T) error {
	if _, ok := t.m[oldItem]; !ok {
		return missing(oldItem)
	}
	delete(t.m, oldItem)
	t.m[newItem] = struct{}{}
	return nil
}

func (t *SetTarget[T]) Move(int, int, T) error {
	return nil
}

func (t *SetTarget[T]) Clear() error {
	clear(t.m)
	return nil
}

func outOfRange(op string, index, size int) error {
	return fmt.Errorf("%w: %w: %s at %d of %d", ErrOutOfSync, observable.ErrIndexOutOfRange, op, index, size)
}

func missing(key any) error {
	return fmt.Errorf("%w: %w: %v", ErrOutOfSync, observable.ErrNotFound, key)
}

var (
	_ Target[int]                      = (*SliceTarget[int])(nil)
	_ Target[change.Pair[string, int]] = (*MapTarget[string, int])(nil)
	_ Target[int]                      = (*SetTarget[int])(nil)
)
