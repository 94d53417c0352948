package observability

import "context"

// NoOpObserver discards all events. It is the default for collections, so
// an unconfigured collection pays nothing for diagnostics.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// Silent reports whether events sent to obs are discarded. Emitters check it
// before building event data.
func Silent(obs Observer) bool {
	switch o := obs.(type) {
	case nil, NoOpObserver, *NoOpObserver:
		return true
	case *MultiObserver:
		return o.Len() == 0
	default:
		return false
	}
}
