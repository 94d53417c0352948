package observable

import "github.com/tailored-agentic-units/observable/observability"

// Diagnostic event types emitted by collections.
const (
	EventCollectionCreate  observability.EventType = "collection.create"
	EventCollectionChange  observability.EventType = "collection.change"
	EventSubscriberFailure observability.EventType = "collection.subscriber.failure"
)
