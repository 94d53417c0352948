// Package metrics exposes collection, view and binding activity as
// Prometheus metrics.
//
// Collector is both a prometheus.Collector and an observability.Observer.
// Pass it wherever an observer is accepted (collection options, view.New,
// binding engine options) and register it with a Prometheus registry.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/observable/binding"
	"github.com/tailored-agentic-units/observable/observability"
	"github.com/tailored-agentic-units/observable/observable"
	"github.com/tailored-agentic-units/observable/view"
)

const metricsNamespace = "observable"

// Collector is a prometheus.Collector that counts change events, dispatch
// and replication failures, active bindings and closed views.
type Collector struct {
	changes             *prometheus.CounterVec
	subscriberFailures  prometheus.Counter
	replicationFailures prometheus.Counter
	bindingsActive      prometheus.Gauge
	viewsClosed         prometheus.Counter
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "changes_total",
				Help:      "The number of change events published by collections.",
			}, []string{"action"},
		),
		subscriberFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "subscriber_failures_total",
				Help:      "The number of handlers that failed or panicked during dispatch.",
			},
		),
		replicationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "replication_failures_total",
				Help:      "The number of events a bound target failed to replay.",
			},
		),
		bindingsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "bindings_active",
				Help:      "The number of source to target bindings currently registered.",
			},
		),
		viewsClosed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "views_closed_total",
				Help:      "The number of read-only views closed.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.changes.Describe(ch)
	c.subscriberFailures.Describe(ch)
	c.replicationFailures.Describe(ch)
	c.bindingsActive.Describe(ch)
	c.viewsClosed.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.changes.Collect(ch)
	c.subscriberFailures.Collect(ch)
	c.replicationFailures.Collect(ch)
	c.bindingsActive.Collect(ch)
	c.viewsClosed.Collect(ch)
}

// OnEvent is part of the observability.Observer interface. Events it does
// not count are ignored.
func (c *Collector) OnEvent(_ context.Context, event observability.Event) {
	switch event.Type {
	case observable.EventCollectionChange:
		if action, ok := event.Data["action"].(string); ok {
			c.changes.WithLabelValues(action).Inc()
		}
	case observable.EventSubscriberFailure:
		n, ok := event.Data["failures"].(int)
		if !ok {
			n = 1
		}
		c.subscriberFailures.Add(float64(n))
	case binding.EventReplicationFailure:
		c.replicationFailures.Inc()
	case binding.EventBind:
		c.bindingsActive.Inc()
	case binding.EventUnbind:
		c.bindingsActive.Dec()
	case view.EventViewClose:
		c.viewsClosed.Inc()
	}
}

var (
	_ prometheus.Collector   = (*Collector)(nil)
	_ observability.Observer = (*Collector)(nil)
)
