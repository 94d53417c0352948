package view

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
)

// State is the lifecycle position of a view.
type State int

const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "open"
}

// ReadOnly mirrors a source collection without allowing writes. It
// implements observable.Observable, so views can be stacked or bound like
// any collection.
type ReadOnly[T any] struct {
	id       uuid.UUID
	source   observable.Observable[T]
	sub      observable.Subscription
	notifier *observable.Notifier[T]
	snapshot []T
	state    State
	observer observability.Observer
}

// New creates an open view over source and starts forwarding its events
// immediately. observer receives open/close diagnostics; nil means none.
func New[T any](source observable.Observable[T], observer ...observability.Observer) (*ReadOnly[T], error) {
	if observable.IsNil(source) {
		return nil, ErrNilSource
	}

	v := &ReadOnly[T]{
		id:       uuid.Must(uuid.NewV7()),
		source:   source,
		state:    StateOpen,
		observer: observability.NewMultiObserver(observer...),
	}
	v.notifier = observable.NewNotifier[T](v)
	v.sub = source.Subscribe(forwarder[T]{view: v})

	v.emit(EventViewOpen, observability.LevelVerbose, map[string]any{
		"source_id": source.ID().String(),
	})
	return v, nil
}

// ID returns the view's own handle, distinct from its source's.
func (v *ReadOnly[T]) ID() uuid.UUID {
	return v.id
}

// State reports whether the view is open or closed.
func (v *ReadOnly[T]) State() State {
	return v.state
}

// Closed reports whether Close has been called.
func (v *ReadOnly[T]) Closed() bool {
	return v.state == StateClosed
}

// Source returns the source collection while the view is open.
func (v *ReadOnly[T]) Source() (observable.Observable[T], bool) {
	if v.state == StateClosed {
		return nil, false
	}
	return v.source, true
}

// Len reads the live source while open and the snapshot once closed.
func (v *ReadOnly[T]) Len() int {
	if v.state == StateClosed {
		return len(v.snapshot)
	}
	return v.source.Len()
}

// Items reads the live source while open and the snapshot once closed.
func (v *ReadOnly[T]) Items() []T {
	if v.state == StateClosed {
		return slices.Clone(v.snapshot)
	}
	return v.source.Items()
}

// Subscribe registers h for events forwarded from the source. A closed view
// accepts no subscriptions and returns the zero Subscription.
func (v *ReadOnly[T]) Subscribe(h observable.Handler[T]) observable.Subscription {
	if v.state == StateClosed {
		return observable.Subscription{}
	}
	return v.notifier.Subscribe(h)
}

func (v *ReadOnly[T]) Unsubscribe(sub observable.Subscription) bool {
	return v.notifier.Unsubscribe(sub)
}

// Close detaches the view from its source. It snapshots the current
// contents, unsubscribes, drops the source reference and every subscriber.
// Calling Close again does nothing.
func (v *ReadOnly[T]) Close() {
	if v.state == StateClosed {
		return
	}

	v.snapshot = v.source.Items()
	v.source.Unsubscribe(v.sub)
	sourceID := v.source.ID()
	v.source = nil
	v.sub = observable.Subscription{}
	v.notifier.Reset()
	v.state = StateClosed

	v.emit(EventViewClose, observability.LevelVerbose, map[string]any{
		"source_id": sourceID.String(),
		"items":     len(v.snapshot),
	})
}

func (v *ReadOnly[T]) emit(t observability.EventType, level observability.Level, data map[string]any) {
	if observability.Silent(v.observer) {
		return
	}
	v.observer.OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "view/" + v.id.String(),
		Data:      data,
	})
}

// forwarder republishes source events with the view as sender. It is a
// separate type so the view itself does not expose a HandleChange method.
type forwarder[T any] struct {
	view *ReadOnly[T]
}

func (f forwarder[T]) HandleChange(_ observable.Observable[T], ev change.Event[T]) error {
	if f.view.state == StateClosed {
		return nil
	}
	return f.view.notifier.Publish(ev)
}

var _ observable.Observable[int] = (*ReadOnly[int])(nil)
