package binding

import (
	"slices"

	"github.com/google/uuid"
	"github.com/juju/collections/transform"

	"github.com/tailored-agentic-units/observable/observable"
)

// entry is everything bound to one source: the engine's subscription on it
// and the bindings in bind order.
type entry[T any] struct {
	source   observable.Observable[T]
	sub      observable.Subscription
	bindings []*Binding[T]
}

func (e *entry[T]) indexOf(target uuid.UUID) int {
	return slices.IndexFunc(e.bindings, func(b *Binding[T]) bool {
		return b.target.ID() == target
	})
}

// Registry maps source handles to the targets bound to them. It is owned by
// an Engine; callers get read access through Engine.Registry.
type Registry[T any] struct {
	entries map[uuid.UUID]*entry[T]
}

func newRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[uuid.UUID]*entry[T])}
}

// Len returns the number of sources with at least one target.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Sources returns the handles of every bound source.
func (r *Registry[T]) Sources() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}

// Targets returns the target handles bound to source in bind order.
func (r *Registry[T]) Targets(source uuid.UUID) []uuid.UUID {
	e, ok := r.entries[source]
	if !ok {
		return nil
	}
	return transform.Slice(e.bindings, func(b *Binding[T]) uuid.UUID {
		return b.target.ID()
	})
}

// Contains reports whether target is bound to source.
func (r *Registry[T]) Contains(source, target uuid.UUID) bool {
	e, ok := r.entries[source]
	return ok && e.indexOf(target) >= 0
}

// Bindings returns the total number of source/target pairs.
func (r *Registry[T]) Bindings() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.bindings)
	}
	return n
}

func (r *Registry[T]) lookup(source uuid.UUID) (*entry[T], bool) {
	e, ok := r.entries[source]
	return e, ok
}

func (r *Registry[T]) put(e *entry[T]) {
	r.entries[e.source.ID()] = e
}

// remove detaches target from source. It returns the removed binding and
// whether source has no targets left, in which case its entry is dropped.
func (r *Registry[T]) remove(source, target uuid.UUID) (*Binding[T], *entry[T], bool) {
	e, ok := r.entries[source]
	if !ok {
		return nil, nil, false
	}
	i := e.indexOf(target)
	if i < 0 {
		return nil, nil, false
	}
	b := e.bindings[i]
	e.bindings = slices.Delete(e.bindings, i, i+1)
	if len(e.bindings) == 0 {
		delete(r.entries, source)
	}
	return b, e, true
}
