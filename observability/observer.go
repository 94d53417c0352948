// Package observability carries diagnostic events out of the collection,
// view and binding packages. It is a side channel for logs and metrics; the
// change notifications that drive replication travel through
// observable.Handler, not through here.
//
// Level values align with OpenTelemetry SeverityNumbers so events can be
// forwarded to OTel collectors without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8), maps to slog.LevelDebug
	LevelInfo    Level = 9  // OTel INFO (9-12), maps to slog.LevelInfo
	LevelWarning Level = 13 // OTel WARN (13-16), maps to slog.LevelWarn
	LevelError   Level = 17 // OTel ERROR (17-20), maps to slog.LevelError
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level for log emission.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType identifies the kind of event. Each package defines its own
// constants using this type (e.g., "collection.change", "binding.bind").
type EventType string

// Event is a diagnostic record emitted by a collection, view or binding
// engine. Source is the emitting component's handle ("list/<uuid>",
// "binding/<uuid>"); Data holds counts, indices and actions, never the items
// themselves.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives diagnostic events. Implementations must not call back
// into the collection that emitted the event.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
