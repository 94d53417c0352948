package binding

import (
	"log/slog"

	"github.com/tailored-agentic-units/observable/config"
	"github.com/tailored-agentic-units/observable/observability"
)

type options struct {
	observer               observability.Observer
	errorHandler           func(*ReplicationError)
	failOnReplicationError bool
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NewSlogObserver(slog.Default())
	}
	return o
}

// Option configures an Engine.
type Option func(*options)

// WithObserver sets the diagnostic observer. Replication failures are
// reported to it at LevelWarning. Defaults to a SlogObserver on
// slog.Default(); pass observability.NoOpObserver{} to silence the engine.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithErrorHandler registers fn to receive every replication failure as it
// happens.
func WithErrorHandler(fn func(*ReplicationError)) Option {
	return func(o *options) { o.errorHandler = fn }
}

// WithFailOnReplicationError returns replication failures from the source
// mutation that triggered them, wrapped in the source's
// AggregatedSubscriberError. Off by default.
func WithFailOnReplicationError(enabled bool) Option {
	return func(o *options) { o.failOnReplicationError = enabled }
}

// FromConfig translates a BindingConfig into an Option. Unknown observer
// names fall back to NoOpObserver; config.Load rejects them earlier.
func FromConfig(cfg config.BindingConfig) Option {
	return func(o *options) {
		o.failOnReplicationError = cfg.FailOnReplicationError
		if obs, err := observability.GetObserver(cfg.Observer); err == nil {
			o.observer = obs
		}
	}
}

type bindOptions struct {
	allowUnbind bool
}

// BindOption configures a single Bind call.
type BindOption func(*bindOptions)

// WithAllowUnbind controls whether the binding may be removed. Bindings are
// removable by default; a permanent binding rejects Unbind with
// ErrUnbindNotAllowed.
func WithAllowUnbind(allow bool) BindOption {
	return func(o *bindOptions) { o.allowUnbind = allow }
}
