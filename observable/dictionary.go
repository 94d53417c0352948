package observable

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/observable/change"
)

// Dictionary is an observable key/value collection that enumerates in key
// insertion order. Its events carry change.Pair items so replay targets can
// address entries by key.
type Dictionary[K comparable, V any] struct {
	base[change.Pair[K, V]]
	keys   []K
	values map[K]V
}

// NewDictionary creates an empty Dictionary.
func NewDictionary[K comparable, V any](opts ...Option) *Dictionary[K, V] {
	return NewDictionaryFrom[K, V](nil, opts...)
}

// NewDictionaryFrom creates a Dictionary seeded with pairs. A repeated key
// keeps its first position and its last value.
func NewDictionaryFrom[K comparable, V any](pairs []change.Pair[K, V], opts ...Option) *Dictionary[K, V] {
	d := &Dictionary[K, V]{values: make(map[K]V, len(pairs))}
	d.base = newBase[change.Pair[K, V]]("dictionary", d, opts)
	for _, p := range pairs {
		if _, ok := d.values[p.Key]; !ok {
			d.keys = append(d.keys, p.Key)
		}
		d.values[p.Key] = p.Value
	}
	d.created(len(d.keys))
	return d
}

func (d *Dictionary[K, V]) Len() int {
	return len(d.keys)
}

// Items returns the entries in key insertion order.
func (d *Dictionary[K, V]) Items() []change.Pair[K, V] {
	items := make([]change.Pair[K, V], len(d.keys))
	for i, k := range d.keys {
		items[i] = change.PairOf(k, d.values[k])
	}
	return items
}

// Keys returns the keys in insertion order.
func (d *Dictionary[K, V]) Keys() []K {
	return slices.Clone(d.keys)
}

// Get returns the value stored under key.
func (d *Dictionary[K, V]) Get(key K) (V, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *Dictionary[K, V]) ContainsKey(key K) bool {
	_, ok := d.values[key]
	return ok
}

// Add inserts a new entry. It returns ErrKeyExists if key is present.
func (d *Dictionary[K, V]) Add(key K, value V) error {
	return d.AddRange(change.PairOf(key, value))
}

// AddRange inserts all pairs as one Add event. If any key already exists or
// repeats within the batch, nothing is inserted.
func (d *Dictionary[K, V]) AddRange(pairs ...change.Pair[K, V]) error {
	if len(pairs) == 0 {
		return nil
	}
	seen := make(map[K]struct{}, len(pairs))
	for _, p := range pairs {
		_, dup := seen[p.Key]
		if dup || d.ContainsKey(p.Key) {
			return fmt.Errorf("%w: %v", ErrKeyExists, p.Key)
		}
		seen[p.Key] = struct{}{}
	}

	ev, err := change.NewAdd(len(d.keys), pairs...)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		d.keys = append(d.keys, p.Key)
		d.values[p.Key] = p.Value
	}
	return d.publish(ev)
}

// Set stores value under key. An existing entry is replaced in place and
// publishes Replace; a new key is appended and publishes Add.
func (d *Dictionary[K, V]) Set(key K, value V) error {
	old, ok := d.values[key]
	if !ok {
		return d.Add(key, value)
	}

	index := slices.Index(d.keys, key)
	ev, err := change.NewReplace(index,
		[]change.Pair[K, V]{change.PairOf(key, old)},
		[]change.Pair[K, V]{change.PairOf(key, value)})
	if err != nil {
		return err
	}
	d.values[key] = value
	return d.publish(ev)
}

// Remove deletes the entry under key. It returns ErrNotFound if key is
// absent.
func (d *Dictionary[K, V]) Remove(key K) error {
	old, ok := d.values[key]
	if !ok {
		return fmt.Errorf("%w: key %v", ErrNotFound, key)
	}

	index := slices.Index(d.keys, key)
	ev, err := change.NewRemove(index, change.PairOf(key, old))
	if err != nil {
		return err
	}
	d.keys = slices.Delete(d.keys, index, index+1)
	delete(d.values, key)
	return d.publish(ev)
}

func (d *Dictionary[K, V]) Clear() error {
	return d.clear(d.Items(), func() {
		d.keys = nil
		clear(d.values)
	})
}
