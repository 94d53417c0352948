package view

import "github.com/tailored-agentic-units/observable/observability"

// Diagnostic event types emitted by views.
const (
	EventViewOpen  observability.EventType = "view.open"
	EventViewClose observability.EventType = "view.close"
)
