package observable

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/observable/change"
)

// Observable is the read and subscribe side shared by every collection kind
// and by read-only views.
type Observable[T any] interface {
	// ID is a stable handle for this collection, used as a registry key.
	ID() uuid.UUID
	// Len returns the number of items.
	Len() int
	// Items returns a copy of the contents in enumeration order.
	Items() []T
	// Subscribe registers h for every future event. Subscribing a handler
	// that is already registered returns its existing Subscription.
	// HandlerFunc values are never equal, so use a pointer handler when
	// re-subscribing must be a no-op.
	Subscribe(h Handler[T]) Subscription
	// Unsubscribe removes a registration. It reports false if sub was not
	// registered.
	Unsubscribe(sub Subscription) bool
}

// Handler reacts to one change event. sender is the collection (or view)
// that published the event.
type Handler[T any] interface {
	HandleChange(sender Observable[T], ev change.Event[T]) error
}

// HandlerFunc adapts a function to Handler. Functions have no identity in
// Go, so every Subscribe of a HandlerFunc creates a new registration; keep
// the returned Subscription to remove it.
type HandlerFunc[T any] func(sender Observable[T], ev change.Event[T]) error

func (f HandlerFunc[T]) HandleChange(sender Observable[T], ev change.Event[T]) error {
	return f(sender, ev)
}

// Subscription is the token returned by Subscribe.
type Subscription struct {
	id uuid.UUID
}

// ID returns the token's handle. The zero Subscription has uuid.Nil.
func (s Subscription) ID() uuid.UUID {
	return s.id
}

// Valid reports whether s came from a successful Subscribe.
func (s Subscription) Valid() bool {
	return s.id != uuid.Nil
}

func (s Subscription) String() string {
	return s.id.String()
}

func newSubscription() Subscription {
	return Subscription{id: uuid.Must(uuid.NewV7())}
}

// IsNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, channel or function.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

var (
	_ Observable[int]                      = (*List[int])(nil)
	_ Observable[int]                      = (*Set[int])(nil)
	_ Observable[int]                      = (*Stack[int])(nil)
	_ Observable[change.Pair[string, int]] = (*Dictionary[string, int])(nil)
)
