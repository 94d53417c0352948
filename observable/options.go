package observable

import (
	"github.com/tailored-agentic-units/observable/config"
	"github.com/tailored-agentic-units/observable/observability"
)

type options struct {
	reportClearAsRemove bool
	observer            observability.Observer
}

func newOptions(opts []Option) options {
	o := options{observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}
	return o
}

// Option configures a collection at construction.
type Option func(*options)

// WithReportClearAsRemove makes Clear publish one Remove event listing every
// item, instead of an item-less Clear event. Off by default: enabling it
// costs O(n) per clear.
func WithReportClearAsRemove(enabled bool) Option {
	return func(o *options) { o.reportClearAsRemove = enabled }
}

// WithObserver sets the diagnostic observer. Defaults to NoOpObserver.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// FromConfig translates a CollectionConfig into an Option. Unknown observer
// names fall back to NoOpObserver; config.Load rejects them earlier.
func FromConfig(cfg config.CollectionConfig) Option {
	return func(o *options) {
		o.reportClearAsRemove = cfg.ReportClearAsRemove
		if obs, err := observability.GetObserver(cfg.Observer); err == nil {
			o.observer = obs
		}
	}
}
