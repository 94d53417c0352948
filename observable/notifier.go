package observable

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/multierr"

	"github.com/tailored-agentic-units/observable/change"
)

type registration[T any] struct {
	sub     Subscription
	handler Handler[T]
}

// Notifier is the subscriber registry and dispatch loop behind every
// collection. It is exported for types that republish another collection's
// events, such as read-only views.
//
// Handlers run in subscription order. A handler unsubscribed by an earlier
// handler during the same dispatch is skipped; a handler subscribed during a
// dispatch first sees the next event.
type Notifier[T any] struct {
	sender        Observable[T]
	registrations []registration[T]
}

// NewNotifier creates a Notifier that passes sender to every handler.
func NewNotifier[T any](sender Observable[T]) *Notifier[T] {
	return &Notifier[T]{sender: sender}
}

// Subscribe registers h. A nil handler yields the zero Subscription.
// Subscribing a comparable handler that is already registered returns its
// existing Subscription. Function values cannot be compared, so each
// HandlerFunc subscription is a new registration; subscribe a pointer
// handler when re-subscribing must be a no-op.
func (n *Notifier[T]) Subscribe(h Handler[T]) Subscription {
	if h == nil {
		return Subscription{}
	}
	for _, r := range n.registrations {
		if sameHandler(r.handler, h) {
			return r.sub
		}
	}

	sub := newSubscription()
	n.registrations = append(n.registrations, registration[T]{sub: sub, handler: h})
	return sub
}

// Unsubscribe removes sub and reports whether it was registered.
func (n *Notifier[T]) Unsubscribe(sub Subscription) bool {
	i := n.indexOf(sub)
	if i < 0 {
		return false
	}
	n.registrations = slices.Delete(n.registrations, i, i+1)
	return true
}

// Subscribed reports whether sub is currently registered.
func (n *Notifier[T]) Subscribed(sub Subscription) bool {
	return n.indexOf(sub) >= 0
}

// Len returns the number of registered handlers.
func (n *Notifier[T]) Len() int {
	return len(n.registrations)
}

// Reset drops every registration.
func (n *Notifier[T]) Reset() {
	n.registrations = nil
}

// Publish calls every handler with ev and folds their failures. It returns
// nil when all handlers succeed, otherwise an *AggregatedSubscriberError.
func (n *Notifier[T]) Publish(ev change.Event[T]) error {
	if len(n.registrations) == 0 {
		return nil
	}

	var errs error
	for _, r := range slices.Clone(n.registrations) {
		if !n.Subscribed(r.sub) {
			continue
		}
		if err := invoke(r.handler, n.sender, ev); err != nil {
			errs = multierr.Append(errs, &SubscriberError{Subscription: r.sub, Err: err})
		}
	}

	if errs == nil {
		return nil
	}
	return &AggregatedSubscriberError{Action: ev.Action(), err: errs}
}

func (n *Notifier[T]) indexOf(sub Subscription) int {
	if !sub.Valid() {
		return -1
	}
	return slices.IndexFunc(n.registrations, func(r registration[T]) bool {
		return r.sub == sub
	})
}

func invoke[T any](h Handler[T], sender Observable[T], ev change.Event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h.HandleChange(sender, ev)
}

// sameHandler compares handlers by identity where Go allows it. Function
// values and other incomparable handlers are never considered equal.
func sameHandler[T any](a, b Handler[T]) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
