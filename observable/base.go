package observable

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/observability"
)

// base holds what every collection kind shares: identity, options and the
// notifier. Kinds embed it and call publish after mutating storage.
type base[T any] struct {
	id       uuid.UUID
	kind     string
	opts     options
	notifier *Notifier[T]
}

func newBase[T any](kind string, sender Observable[T], opts []Option) base[T] {
	b := base[T]{
		id:       uuid.Must(uuid.NewV7()),
		kind:     kind,
		opts:     newOptions(opts),
		notifier: NewNotifier(sender),
	}
	return b
}

// ID returns the collection's stable handle.
func (b *base[T]) ID() uuid.UUID {
	return b.id
}

// Subscribe registers h for every future event.
func (b *base[T]) Subscribe(h Handler[T]) Subscription {
	return b.notifier.Subscribe(h)
}

// Unsubscribe removes a registration made by Subscribe.
func (b *base[T]) Unsubscribe(sub Subscription) bool {
	return b.notifier.Unsubscribe(sub)
}

// Subscribers returns the number of registered handlers.
func (b *base[T]) Subscribers() int {
	return b.notifier.Len()
}

func (b *base[T]) source() string {
	return b.kind + "/" + b.id.String()
}

func (b *base[T]) created(size int) {
	if observability.Silent(b.opts.observer) {
		return
	}
	b.opts.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventCollectionCreate,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    b.source(),
		Data: map[string]any{
			"kind":                   b.kind,
			"items":                  size,
			"report_clear_as_remove": b.opts.reportClearAsRemove,
		},
	})
}

func (b *base[T]) publish(ev change.Event[T]) error {
	if observability.Silent(b.opts.observer) {
		return b.notifier.Publish(ev)
	}

	ctx := context.Background()
	b.opts.observer.OnEvent(ctx, observability.Event{
		Type:      EventCollectionChange,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    b.source(),
		Data: map[string]any{
			"action":      ev.Action().String(),
			"index":       ev.Index(),
			"old_items":   len(ev.OldItems()),
			"new_items":   len(ev.NewItems()),
			"subscribers": b.notifier.Len(),
		},
	})

	err := b.notifier.Publish(ev)
	if agg, ok := err.(*AggregatedSubscriberError); ok {
		b.opts.observer.OnEvent(ctx, observability.Event{
			Type:      EventSubscriberFailure,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    b.source(),
			Data: map[string]any{
				"action":   agg.Action.String(),
				"failures": len(agg.Errors()),
				"error":    agg.Error(),
			},
		})
	}
	return err
}

// clear publishes the clear notification for items and calls reset. With
// report-clear-as-remove the Remove event goes out before reset so handlers
// still see the items; otherwise reset runs first and a Clear event follows.
func (b *base[T]) clear(items []T, reset func()) error {
	if !b.opts.reportClearAsRemove {
		reset()
		return b.publish(change.NewClear[T]())
	}

	if len(items) == 0 {
		return nil
	}
	ev, err := change.NewRemove(0, items...)
	if err != nil {
		return err
	}
	dispatchErr := b.publish(ev)
	reset()
	return dispatchErr
}
