package observable_test

import (
	"context"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
)

// recorder is a comparable handler that keeps every event it receives.
type recorder[T any] struct {
	events  []change.Event[T]
	senders []observable.Observable[T]
	err     error
}

func (r *recorder[T]) HandleChange(sender observable.Observable[T], ev change.Event[T]) error {
	r.events = append(r.events, ev)
	r.senders = append(r.senders, sender)
	return r.err
}

func (r *recorder[T]) last() change.Event[T] {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func (c *captureObserver) ofType(t observability.EventType) []observability.Event {
	var out []observability.Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func mustAdd[T any](index int, items ...T) change.Event[T] {
	ev, err := change.NewAdd(index, items...)
	if err != nil {
		panic(err)
	}
	return ev
}

func mustRemove[T any](index int, items ...T) change.Event[T] {
	ev, err := change.NewRemove(index, items...)
	if err != nil {
		panic(err)
	}
	return ev
}

func mustReplace[T any](index int, oldItems, newItems []T) change.Event[T] {
	ev, err := change.NewReplace(index, oldItems, newItems)
	if err != nil {
		panic(err)
	}
	return ev
}

func mustMove[T any](item T, from, to int) change.Event[T] {
	ev, err := change.NewMove(item, from, to)
	if err != nil {
		panic(err)
	}
	return ev
}
