package observable

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/tailored-agentic-units/observable/change"
)

// Sentinel errors for collection operations. A mutation that fails with
// one of these leaves storage unchanged and publishes no event.
var (
	ErrNotFound        = errors.New("item not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrKeyExists       = errors.New("key already exists")
	ErrEmpty           = errors.New("collection is empty")
	ErrHandlerPanic    = errors.New("handler panicked")
)

// SubscriberError is the failure of a single handler during dispatch.
type SubscriberError struct {
	Subscription Subscription
	Err          error
}

// Error implements the error interface.
func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s: %v", e.Subscription, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// AggregatedSubscriberError reports every handler that failed while one
// event was dispatched. The mutation that produced the event has already
// been applied.
type AggregatedSubscriberError struct {
	Action change.Action
	err    error
}

// Error implements the error interface.
func (e *AggregatedSubscriberError) Error() string {
	return fmt.Sprintf("%d subscriber(s) failed handling %s: %v", len(e.Errors()), e.Action, e.err)
}

// Errors returns the individual *SubscriberError values in dispatch order.
func (e *AggregatedSubscriberError) Errors() []error {
	return multierr.Errors(e.err)
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregatedSubscriberError) Unwrap() []error {
	return e.Errors()
}

// Failures returns the individual failures with their subscriptions.
func (e *AggregatedSubscriberError) Failures() []*SubscriberError {
	errs := e.Errors()
	failures := make([]*SubscriberError, 0, len(errs))
	for _, err := range errs {
		var se *SubscriberError
		if errors.As(err, &se) {
			failures = append(failures, se)
		}
	}
	return failures
}
