package change

import "fmt"

// Pair is the item type of keyed collections. Dictionary events carry pairs
// so a replay target can locate entries by Key.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// PairOf builds a Pair.
func PairOf[K comparable, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}

func (p Pair[K, V]) String() string {
	return fmt.Sprintf("%v=%v", p.Key, p.Value)
}
