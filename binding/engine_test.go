package binding_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/observable/binding"
	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/config"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
	"github.com/tailored-agentic-units/observable/view"
)

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

// recordingTarget wraps a SliceTarget and records the positions passed to
// RemoveAt.
type recordingTarget struct {
	*binding.SliceTarget[string]
	removed []int
}

func (r *recordingTarget) RemoveAt(index int, item string) error {
	r.removed = append(r.removed, index)
	return r.SliceTarget.RemoveAt(index, item)
}

func TestBind_RemoveThenAddRange(t *testing.T) {
	source := observable.NewListFrom([]string{"A", "B", "C"})
	dst := []string{"A", "B", "C"}
	target := binding.NewSliceTarget(&dst)

	engine := binding.New[string]()
	_, err := engine.Bind(source, target)
	require.NoError(t, err)

	var events []change.Event[string]
	source.Subscribe(observable.HandlerFunc[string](func(_ observable.Observable[string], ev change.Event[string]) error {
		events = append(events, ev)
		return nil
	}))

	require.NoError(t, source.RemoveAt(1))
	assert.Equal(t, []string{"A", "C"}, source.Items())
	assert.Equal(t, []string{"A", "C"}, dst)
	require.Len(t, events, 1)
	wantRemove, _ := change.NewRemove(1, "B")
	assert.True(t, change.Equal[string](wantRemove, events[0]))

	require.NoError(t, source.AddRange("X", "Y"))
	assert.Equal(t, []string{"A", "C", "X", "Y"}, source.Items())
	assert.Equal(t, []string{"A", "C", "X", "Y"}, dst)
	require.Len(t, events, 2)
	wantAdd, _ := change.NewAdd(2, "X", "Y")
	assert.True(t, change.Equal[string](wantAdd, events[1]))
}

func TestBind_SequenceMismatch(t *testing.T) {
	source := observable.NewListFrom([]int{1, 2, 3})
	dst := []int{1, 2}
	target := binding.NewSliceTarget(&dst)
	engine := binding.New[int]()

	b, err := engine.Bind(source, target)

	assert.ErrorIs(t, err, binding.ErrSequenceMismatch)
	assert.Nil(t, b)
	assert.Equal(t, []int{1, 2}, dst)
	assert.Zero(t, source.Subscribers())
	assert.False(t, engine.Bound(source, target))
	assert.Zero(t, engine.Registry().Len())
}

func TestBind_OrderMatters(t *testing.T) {
	source := observable.NewListFrom([]int{1, 2})
	dst := []int{2, 1}
	_, err := binding.New[int]().Bind(source, binding.NewSliceTarget(&dst))
	assert.ErrorIs(t, err, binding.ErrSequenceMismatch)
}

func TestBind_Validation(t *testing.T) {
	engine := binding.New[int]()
	source := observable.NewList[int]()
	target := binding.NewSliceTarget[int](nil)

	_, err := engine.Bind(nil, target)
	assert.ErrorIs(t, err, binding.ErrNilSource)
	_, err = engine.Bind(source, nil)
	assert.ErrorIs(t, err, binding.ErrNilTarget)

	_, err = engine.Bind(source, target)
	require.NoError(t, err)
	_, err = engine.Bind(source, target)
	assert.ErrorIs(t, err, binding.ErrAlreadyBound)
	assert.Equal(t, 1, source.Subscribers())
}

func TestReplay_DescendingRemoval(t *testing.T) {
	source := observable.NewListFrom([]string{"a", "b", "c", "d", "e"})
	dst := []string{"a", "b", "c", "d", "e"}
	target := &recordingTarget{SliceTarget: binding.NewSliceTarget(&dst)}

	_, err := binding.New[string]().Bind(source, target)
	require.NoError(t, err)

	require.NoError(t, source.RemoveRange(1, 2))

	assert.Equal(t, []int{2, 1}, target.removed, "highest position first")
	assert.Equal(t, []string{"a", "d", "e"}, dst, "ascending replay would have left [a c e]")
	assert.Equal(t, source.Items(), dst)
}

func TestReplay_EveryListOperation(t *testing.T) {
	source := observable.NewListFrom([]string{"a", "b", "c"})
	dst := []string{"a", "b", "c"}
	_, err := binding.New[string]().Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	steps := []struct {
		name string
		op   func() error
	}{
		{name: "add", op: func() error { return source.Add("d") }},
		{name: "insert range", op: func() error { return source.InsertRange(1, "x", "y") }},
		{name: "remove", op: func() error { return source.Remove("x") }},
		{name: "set", op: func() error { return source.Set(0, "z") }},
		{name: "move forward", op: func() error { return source.Move(0, 3) }},
		{name: "move backward", op: func() error { return source.Move(4, 1) }},
		{name: "remove at", op: func() error { return source.RemoveAt(2) }},
		{name: "clear", op: func() error { return source.Clear() }},
		{name: "add after clear", op: func() error { return source.AddRange("p", "q") }},
	}

	for _, step := range steps {
		require.NoError(t, step.op(), step.name)
		assert.Equal(t, source.Items(), dst, "after %s", step.name)
	}
}

func TestReplay_ClearAsRemove(t *testing.T) {
	source := observable.NewListFrom([]int{1, 2, 3}, observable.WithReportClearAsRemove(true))
	dst := []int{1, 2, 3}
	_, err := binding.New[int]().Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	require.NoError(t, source.Clear())
	assert.Empty(t, dst)
}

func TestReplay_IsolatesFailingTarget(t *testing.T) {
	obs := &captureObserver{}
	var handled []*binding.ReplicationError

	source := observable.NewListFrom([]string{"a", "b"})
	first := []string{"a", "b"}
	broken := []string{"a", "b"}
	last := []string{"a", "b"}
	brokenTarget := binding.NewSliceTarget(&broken)

	engine := binding.New[string](
		binding.WithObserver(obs),
		binding.WithErrorHandler(func(err *binding.ReplicationError) { handled = append(handled, err) }),
	)
	for _, target := range []binding.Target[string]{
		binding.NewSliceTarget(&first), brokenTarget, binding.NewSliceTarget(&last),
	} {
		_, err := engine.Bind(source, target)
		require.NoError(t, err)
	}

	broken = broken[:0]

	err := source.RemoveAt(1)

	require.NoError(t, err, "replication failures are not fatal by default")
	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, []string{"a"}, last, "targets after the failing one still replay")
	assert.Empty(t, broken)

	require.Len(t, handled, 1)
	assert.Equal(t, brokenTarget.ID(), handled[0].Target)
	assert.Equal(t, source.ID(), handled[0].Source)
	assert.Equal(t, change.ActionRemove, handled[0].Action)
	assert.ErrorIs(t, handled[0], binding.ErrOutOfSync)
	assert.ErrorIs(t, handled[0], observable.ErrIndexOutOfRange)

	failures := obs.ofType(binding.EventReplicationFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, observability.LevelWarning, failures[0].Level)
}

func TestReplay_FailOnReplicationError(t *testing.T) {
	source := observable.NewListFrom([]int{1})
	dst := []int{1}
	engine := binding.New[int](binding.WithFailOnReplicationError(true))
	_, err := engine.Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	dst = dst[:0]
	err = source.RemoveAt(0)

	require.Error(t, err)
	var rerr *binding.ReplicationError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, binding.ErrOutOfSync)
	var agg *observable.AggregatedSubscriberError
	assert.ErrorAs(t, err, &agg)
	assert.Zero(t, source.Len(), "source mutation is kept")
}

func TestReplay_FromConfig(t *testing.T) {
	cfg := config.DefaultBindingConfig()
	cfg.FailOnReplicationError = true
	cfg.Observer = "noop"

	source := observable.NewListFrom([]int{1})
	dst := []int{1}
	engine := binding.New[int](binding.FromConfig(cfg))
	_, err := engine.Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	dst = append(dst, 9)
	assert.NoError(t, source.Add(2), "insert at index 1 still fits")
	dst = nil
	assert.ErrorIs(t, source.Set(0, 5), binding.ErrOutOfSync)
}

func TestUnbind(t *testing.T) {
	obs := &captureObserver{}
	source := observable.NewListFrom([]int{1})
	a, b := []int{1}, []int{1}
	ta, tb := binding.NewSliceTarget(&a), binding.NewSliceTarget(&b)

	engine := binding.New[int](binding.WithObserver(obs))
	ba, err := engine.Bind(source, ta)
	require.NoError(t, err)
	_, err = engine.Bind(source, tb)
	require.NoError(t, err)

	assert.Equal(t, 1, source.Subscribers(), "one engine handler per source")
	assert.Equal(t, []uuid.UUID{ta.ID(), tb.ID()}, engine.Targets(source))
	assert.Equal(t, 2, engine.Registry().Bindings())

	require.NoError(t, ba.Unbind())
	assert.False(t, ba.Active())
	assert.False(t, engine.Bound(source, ta))
	assert.Equal(t, 1, source.Subscribers(), "still subscribed for the remaining target")

	require.NoError(t, source.Add(2))
	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []int{1, 2}, b)

	require.NoError(t, engine.Unbind(source, tb))
	assert.Zero(t, source.Subscribers(), "last unbind unsubscribes")
	assert.Zero(t, engine.Registry().Len())
	assert.Empty(t, engine.Targets(source))

	require.NoError(t, source.Add(3))
	assert.Equal(t, []int{1, 2}, b)

	assert.NoError(t, engine.Unbind(source, tb), "unbinding an unbound pair is a no-op")
	assert.NoError(t, ba.Unbind())

	unbinds := obs.ofType(binding.EventUnbind)
	require.Len(t, unbinds, 2)
	assert.Equal(t, false, unbinds[0].Data["unsubscribe"])
	assert.Equal(t, true, unbinds[1].Data["unsubscribe"])
	assert.Len(t, obs.ofType(binding.EventBind), 2)
}

func TestUnbind_NotAllowed(t *testing.T) {
	source := observable.NewList[int]()
	target := binding.NewSliceTarget[int](nil)
	engine := binding.New[int]()

	b, err := engine.Bind(source, target, binding.WithAllowUnbind(false))
	require.NoError(t, err)
	assert.False(t, b.AllowUnbind())

	assert.ErrorIs(t, b.Unbind(), binding.ErrUnbindNotAllowed)
	assert.ErrorIs(t, engine.Unbind(source, target), binding.ErrUnbindNotAllowed)
	assert.True(t, engine.Bound(source, target))
	assert.True(t, b.Active())
}

func TestUnbind_DuringReplay(t *testing.T) {
	source := observable.NewListFrom([]int{1})
	a, b := []int{1}, []int{1}
	ta, tb := binding.NewSliceTarget(&a), binding.NewSliceTarget(&b)
	engine := binding.New[int]()

	_, err := engine.Bind(source, ta)
	require.NoError(t, err)
	bb, err := engine.Bind(source, tb)
	require.NoError(t, err)

	source.Subscribe(observable.HandlerFunc[int](func(observable.Observable[int], change.Event[int]) error {
		return bb.Unbind()
	}))

	require.NoError(t, source.Add(2))
	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1, 2}, b, "engine handler ran before the unbinding handler")

	require.NoError(t, source.Add(3))
	assert.Equal(t, []int{1, 2, 3}, a)
	assert.Equal(t, []int{1, 2}, b)
}

func TestBind_Set(t *testing.T) {
	source := observable.NewSetFrom([]string{"a", "b"})
	dst := map[string]struct{}{"b": {}, "a": {}}
	target := binding.NewSetTarget(dst)

	_, err := binding.New[string]().Bind(source, target)
	require.NoError(t, err)

	added, err := source.Add("c")
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, source.Remove("a"))

	assert.Equal(t, map[string]struct{}{"b": {}, "c": {}}, dst)

	require.NoError(t, source.Clear())
	assert.Empty(t, dst)
}

func TestBind_Dictionary(t *testing.T) {
	source := observable.NewDictionary[string, int]()
	require.NoError(t, source.Add("a", 1))
	dst := map[string]int{"a": 1}
	target := binding.NewMapTarget(dst)

	engine := binding.New[change.Pair[string, int]]()
	_, err := engine.Bind(source, target)
	require.NoError(t, err)

	require.NoError(t, source.Set("a", 10))
	require.NoError(t, source.Set("b", 2))
	require.NoError(t, source.AddRange(change.PairOf("c", 3), change.PairOf("d", 4)))
	require.NoError(t, source.Remove("c"))

	assert.Equal(t, map[string]int{"a": 10, "b": 2, "d": 4}, dst)
}

func TestBind_DictionaryValueMismatch(t *testing.T) {
	source := observable.NewDictionary[string, int]()
	require.NoError(t, source.Add("a", 1))

	_, err := binding.New[change.Pair[string, int]]().Bind(source, binding.NewMapTarget(map[string]int{"a": 2}))
	assert.ErrorIs(t, err, binding.ErrSequenceMismatch)
}

func TestBind_Stack(t *testing.T) {
	source := observable.NewStack[int]()
	var dst []int
	_, err := binding.New[int]().Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	require.NoError(t, source.PushRange(1, 2, 3))
	_, err = source.Pop()
	require.NoError(t, err)
	require.NoError(t, source.Push(4))

	assert.Equal(t, []int{1, 2, 4}, dst)
}

func TestBind_ThroughView(t *testing.T) {
	list := observable.NewListFrom([]string{"a"})
	v, err := view.New[string](list)
	require.NoError(t, err)

	dst := []string{"a"}
	_, err = binding.New[string]().Bind(v, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	require.NoError(t, list.Add("b"))
	assert.Equal(t, []string{"a", "b"}, dst)

	v.Close()
	require.NoError(t, list.Add("c"))
	assert.Equal(t, []string{"a", "b"}, dst, "closed view stops replication")
}

func TestNewFunc_CustomEquality(t *testing.T) {
	type item struct {
		ID   int
		Note string
	}
	source := observable.NewListFrom([]item{{ID: 1, Note: "x"}})
	dst := []item{{ID: 1, Note: "stale"}}

	byID := binding.NewFunc(func(a, b item) bool { return a.ID == b.ID })
	_, err := byID.Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	_, err = binding.New[item]().Bind(source, binding.NewSliceTarget(&dst))
	assert.ErrorIs(t, err, binding.ErrSequenceMismatch)
}

func TestReplicationError(t *testing.T) {
	inner := errors.New("boom")
	err := &binding.ReplicationError{
		Source: uuid.Must(uuid.NewV7()),
		Target: uuid.Must(uuid.NewV7()),
		Action: change.ActionAdd,
		Index:  3,
		Err:    inner,
	}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "replicate add @3")
}

func TestReplay_DefaultEngineLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	source := observable.NewListFrom([]int{1})
	dst := []int{1}
	_, err := binding.New[int]().Bind(source, binding.NewSliceTarget(&dst))
	require.NoError(t, err)

	dst = dst[:0]
	require.NoError(t, source.RemoveAt(0))

	out := buf.String()
	assert.Contains(t, out, string(binding.EventReplicationFailure))
	assert.Contains(t, out, "level=WARN")
}

func TestBind_TypedNil(t *testing.T) {
	engine := binding.New[int](binding.WithObserver(observability.NoOpObserver{}))

	_, err := engine.Bind((*observable.List[int])(nil), binding.NewSliceTarget[int](nil))
	assert.ErrorIs(t, err, binding.ErrNilSource)

	_, err = engine.Bind(observable.NewList[int](), (*binding.SliceTarget[int])(nil))
	assert.ErrorIs(t, err, binding.ErrNilTarget)

	assert.False(t, engine.Bound((*observable.List[int])(nil), (*binding.SliceTarget[int])(nil)))
	assert.NoError(t, engine.Unbind((*observable.List[int])(nil), nil))
	assert.Empty(t, engine.Targets((*observable.List[int])(nil)))
}

func TestReplay_RejectedBatchIsUndone(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		var handled []*binding.ReplicationError
		source := observable.NewDictionary[string, int]()
		dst := map[string]int{}
		engine := binding.New[change.Pair[string, int]](
			binding.WithObserver(observability.NoOpObserver{}),
			binding.WithErrorHandler(func(err *binding.ReplicationError) { handled = append(handled, err) }),
		)
		_, err := engine.Bind(source, binding.NewMapTarget(dst))
		require.NoError(t, err)

		dst["y"] = 99
		require.NoError(t, source.AddRange(change.PairOf("x", 1), change.PairOf("y", 2)))

		assert.Equal(t, map[string]int{"y": 99}, dst)
		require.Len(t, handled, 1)
		assert.ErrorIs(t, handled[0], observable.ErrKeyExists)
	})

	t.Run("remove", func(t *testing.T) {
		source := observable.NewSetFrom([]string{"a", "b", "c"}, observable.WithReportClearAsRemove(true))
		dst := map[string]struct{}{"a": {}, "b": {}, "c": {}}
		engine := binding.New[string](binding.WithObserver(observability.NoOpObserver{}))
		_, err := engine.Bind(source, binding.NewSetTarget(dst))
		require.NoError(t, err)

		delete(dst, "a")
		require.NoError(t, source.Clear())

		assert.Equal(t, map[string]struct{}{"b": {}, "c": {}}, dst)
	})

	t.Run("replace", func(t *testing.T) {
		source := observable.NewDictionaryFrom([]change.Pair[string, int]{change.PairOf("a", 1)})
		dst := map[string]int{"a": 1}
		engine := binding.New[change.Pair[string, int]](binding.WithObserver(observability.NoOpObserver{}))
		_, err := engine.Bind(source, binding.NewMapTarget(dst))
		require.NoError(t, err)

		delete(dst, "a")
		require.NoError(t, source.Set("a", 5))

		assert.Empty(t, dst)
	})
}
