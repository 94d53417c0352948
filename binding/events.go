package binding

import "github.com/tailored-agentic-units/observable/observability"

const (
	EventBind               observability.EventType = "binding.bind"
	EventUnbind             observability.EventType = "binding.unbind"
	EventReplicationFailure observability.EventType = "binding.replicate.failure"
)
