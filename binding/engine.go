package binding

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/juju/collections/transform"
	"go.uber.org/multierr"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
)

// Engine replicates observable sources into bound targets. One engine can
// serve any number of sources; each source is subscribed once no matter how
// many targets it has.
type Engine[T any] struct {
	id       uuid.UUID
	eq       func(a, b T) bool
	opts     options
	registry *Registry[T]
}

// New creates an engine that compares items with reflect.DeepEqual when
// checking bind preconditions.
func New[T any](opts ...Option) *Engine[T] {
	return NewFunc(func(a, b T) bool { return reflect.DeepEqual(a, b) }, opts...)
}

// NewFunc creates an engine that compares items with eq.
func NewFunc[T any](eq func(a, b T) bool, opts ...Option) *Engine[T] {
	return &Engine[T]{
		id:       uuid.Must(uuid.NewV7()),
		eq:       eq,
		opts:     newOptions(opts),
		registry: newRegistry[T](),
	}
}

// Registry exposes the engine's source to target table for inspection.
func (e *Engine[T]) Registry() *Registry[T] {
	return e.registry
}

// Bind links target to source. The target must already hold the source's
// contents; otherwise Bind fails with ErrSequenceMismatch and neither side
// is touched. From then on every source event is replayed into target.
func (e *Engine[T]) Bind(source observable.Observable[T], target Target[T], opts ...BindOption) (*Binding[T], error) {
	if observable.IsNil(source) {
		return nil, ErrNilSource
	}
	if observable.IsNil(target) {
		return nil, ErrNilTarget
	}

	sourceID, targetID := source.ID(), target.ID()
	if e.registry.Contains(sourceID, targetID) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrAlreadyBound, sourceID, targetID)
	}

	items := source.Items()
	if !target.Matches(items, e.eq) {
		return nil, fmt.Errorf("%w: source %s has %d items, target %s has %d",
			ErrSequenceMismatch, sourceID, len(items), targetID, target.Len())
	}

	bo := bindOptions{allowUnbind: true}
	for _, opt := range opts {
		opt(&bo)
	}

	ent, ok := e.registry.lookup(sourceID)
	if !ok {
		ent = &entry[T]{source: source}
		ent.sub = source.Subscribe(replicator[T]{engine: e, source: sourceID})
		e.registry.put(ent)
	}

	b := &Binding[T]{
		id:          uuid.Must(uuid.NewV7()),
		engine:      e,
		source:      sourceID,
		target:      target,
		allowUnbind: bo.allowUnbind,
	}
	ent.bindings = append(ent.bindings, b)

	e.emit(EventBind, observability.LevelInfo, map[string]any{
		"binding_id":   b.id.String(),
		"source_id":    sourceID.String(),
		"target_id":    targetID.String(),
		"targets":      len(ent.bindings),
		"allow_unbind": bo.allowUnbind,
	})
	return b, nil
}

// Unbind removes the link between source and target. When it was the
// source's last target, the engine unsubscribes from source. Unbinding a
// pair that is not bound does nothing.
func (e *Engine[T]) Unbind(source observable.Observable[T], target Target[T]) error {
	if observable.IsNil(source) || observable.IsNil(target) {
		return nil
	}
	return e.unbind(source.ID(), target.ID())
}

// Targets returns the handles of the targets bound to source in bind order.
func (e *Engine[T]) Targets(source observable.Observable[T]) []uuid.UUID {
	if observable.IsNil(source) {
		return nil
	}
	return e.registry.Targets(source.ID())
}

// Bound reports whether target is bound to source.
func (e *Engine[T]) Bound(source observable.Observable[T], target Target[T]) bool {
	if observable.IsNil(source) || observable.IsNil(target) {
		return false
	}
	return e.registry.Contains(source.ID(), target.ID())
}

func (e *Engine[T]) unbind(sourceID, targetID uuid.UUID) error {
	ent, ok := e.registry.lookup(sourceID)
	if !ok {
		return nil
	}
	i := ent.indexOf(targetID)
	if i < 0 {
		return nil
	}
	if !ent.bindings[i].allowUnbind {
		return fmt.Errorf("%w: %s -> %s", ErrUnbindNotAllowed, sourceID, targetID)
	}

	b, ent, _ := e.registry.remove(sourceID, targetID)
	b.unbound = true

	last := len(ent.bindings) == 0
	if last {
		ent.source.Unsubscribe(ent.sub)
	}

	e.emit(EventUnbind, observability.LevelInfo, map[string]any{
		"binding_id":  b.id.String(),
		"source_id":   sourceID.String(),
		"target_id":   targetID.String(),
		"targets":     len(ent.bindings),
		"unsubscribe": last,
	})
	return nil
}

// replicate replays ev into every target bound to source. Each target is
// independent: a failure is recorded and the next target is still replayed.
func (e *Engine[T]) replicate(sourceID uuid.UUID, ev change.Event[T]) error {
	ent, ok := e.registry.lookup(sourceID)
	if !ok {
		return nil
	}

	var errs error
	for _, b := range slices.Clone(ent.bindings) {
		if b.unbound {
			continue
		}
		if err := apply(b.target, ev); err != nil {
			rerr := &ReplicationError{
				Source: sourceID,
				Target: b.target.ID(),
				Action: ev.Action(),
				Index:  ev.Index(),
				Err:    err,
			}
			e.fail(rerr)
			errs = multierr.Append(errs, rerr)
		}
	}

	if !e.opts.failOnReplicationError {
		return nil
	}
	return errs
}

func (e *Engine[T]) fail(rerr *ReplicationError) {
	e.emit(EventReplicationFailure, observability.LevelWarning, map[string]any{
		"source_id": rerr.Source.String(),
		"target_id": rerr.Target.String(),
		"action":    rerr.Action.String(),
		"index":     rerr.Index,
		"error":     rerr.Err.Error(),
	})
	if e.opts.errorHandler != nil {
		e.opts.errorHandler(rerr)
	}
}

func (e *Engine[T]) emit(t observability.EventType, level observability.Level, data map[string]any) {
	if observability.Silent(e.opts.observer) {
		return
	}
	e.opts.observer.OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "binding/" + e.id.String(),
		Data:      data,
	})
}

// apply replays one event into one target. When a primitive is rejected,
// the primitives already applied for the same event are undone so the
// target is left as it was before the event.
func apply[T any](target Target[T], ev change.Event[T]) error {
	switch ev := ev.(type) {
	case change.Added[T]:
		for i := range ev.Len() {
			if err := target.Insert(ev.Index()+i, ev.At(i)); err != nil {
				return undo(err, func() error {
					for j := i - 1; j >= 0; j-- {
						if err := target.RemoveAt(ev.Index()+j, ev.At(j)); err != nil {
							return err
						}
					}
					return nil
				})
			}
		}
	case change.Removed[T]:
		for i := ev.Len() - 1; i >= 0; i-- {
			if err := target.RemoveAt(ev.Index()+i, ev.At(i)); err != nil {
				return undo(err, func() error {
					for j := i + 1; j < ev.Len(); j++ {
						if err := target.Insert(ev.Index()+j, ev.At(j)); err != nil {
							return err
						}
					}
					return nil
				})
			}
		}
	case change.Replaced[T]:
		for i := range ev.Len() {
			if err := target.Replace(ev.Index()+i, ev.OldAt(i), ev.NewAt(i)); err != nil {
				return undo(err, func() error {
					for j := i - 1; j >= 0; j-- {
						if err := target.Replace(ev.Index()+j, ev.NewAt(j), ev.OldAt(j)); err != nil {
							return err
						}
					}
					return nil
				})
			}
		}
	case change.Moved[T]:
		return target.Move(ev.OldIndex(), ev.Index(), ev.Item())
	case change.Cleared[T]:
		return target.Clear()
	default:
		return fmt.Errorf("%w: %T", change.ErrInvalidEvent, ev)
	}
	return nil
}

// undo runs rollback after a rejected primitive and folds its failure into
// err.
func undo(err error, rollback func() error) error {
	if rerr := rollback(); rerr != nil {
		return multierr.Append(err, fmt.Errorf("rollback: %w", rerr))
	}
	return err
}

// replicator is the handler the engine subscribes to each source. It is a
// comparable value, so subscribing it twice to one source is a no-op.
type replicator[T any] struct {
	engine *Engine[T]
	source uuid.UUID
}

func (r replicator[T]) HandleChange(_ observable.Observable[T], ev change.Event[T]) error {
	return r.engine.replicate(r.source, ev)
}

// Binding is one source to target link.
type Binding[T any] struct {
	id          uuid.UUID
	engine      *Engine[T]
	source      uuid.UUID
	target      Target[T]
	allowUnbind bool
	unbound     bool
}

func (b *Binding[T]) ID() uuid.UUID     { return b.id }
func (b *Binding[T]) Source() uuid.UUID { return b.source }
func (b *Binding[T]) Target() uuid.UUID { return b.target.ID() }
func (b *Binding[T]) AllowUnbind() bool { return b.allowUnbind }
func (b *Binding[T]) Active() bool      { return !b.unbound }

// Unbind removes this binding from its engine.
func (b *Binding[T]) Unbind() error {
	if b.unbound {
		return nil
	}
	return b.engine.unbind(b.source, b.target.ID())
}

func (b *Binding[T]) String() string {
	return fmt.Sprintf("%s -> %s", b.source, b.target.ID())
}

// TargetIDs renders target handles as strings, in order.
func TargetIDs(ids []uuid.UUID) []string {
	return transform.Slice(ids, uuid.UUID.String)
}
