package observable_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/observable/change"
	"github.com/tailored-agentic-units/observable/config"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
)

func TestWithObserver_EmitsDiagnostics(t *testing.T) {
	obs := &captureObserver{}
	list := observable.NewListFrom([]int{1}, observable.WithObserver(obs))

	created := obs.ofType(observable.EventCollectionCreate)
	require.Len(t, created, 1)
	assert.Equal(t, "list", created[0].Data["kind"])
	assert.Equal(t, 1, created[0].Data["items"])
	assert.Equal(t, "list/"+list.ID().String(), created[0].Source)

	require.NoError(t, list.AddRange(2, 3))

	changes := obs.ofType(observable.EventCollectionChange)
	require.Len(t, changes, 1)
	assert.Equal(t, "add", changes[0].Data["action"])
	assert.Equal(t, 1, changes[0].Data["index"])
	assert.Equal(t, 2, changes[0].Data["new_items"])
	assert.Equal(t, observability.LevelVerbose, changes[0].Level)
}

func TestWithObserver_ReportsSubscriberFailures(t *testing.T) {
	obs := &captureObserver{}
	list := observable.NewList[int](observable.WithObserver(obs))
	list.Subscribe(observable.HandlerFunc[int](func(observable.Observable[int], change.Event[int]) error {
		return errors.New("nope")
	}))

	require.Error(t, list.Add(1))

	failures := obs.ofType(observable.EventSubscriberFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, observability.LevelWarning, failures[0].Level)
	assert.Equal(t, 1, failures[0].Data["failures"])
}

func TestWithObserver_Nil(t *testing.T) {
	list := observable.NewList[int](observable.WithObserver(nil))
	assert.NoError(t, list.Add(1))
}

func TestFromConfig(t *testing.T) {
	obs := &captureObserver{}
	observability.RegisterObserver("observable-test", obs)

	cfg := config.DefaultCollectionConfig()
	cfg.ReportClearAsRemove = true
	cfg.Observer = "observable-test"

	list := observable.NewListFrom([]int{1, 2}, observable.FromConfig(cfg))
	rec := &recorder[int]{}
	list.Subscribe(rec)

	require.NoError(t, list.Clear())
	assert.Equal(t, change.ActionRemove, rec.last().Action())
	assert.NotEmpty(t, obs.ofType(observable.EventCollectionChange))
}

func TestFromConfig_UnknownObserverFallsBack(t *testing.T) {
	cfg := config.CollectionConfig{Observer: "does-not-exist"}
	list := observable.NewList[int](observable.FromConfig(cfg))
	assert.NoError(t, list.Add(1))
}
