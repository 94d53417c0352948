package observability

import "context"

// MultiObserver fans out events to multiple observers in the order given.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a MultiObserver that forwards events to all
// non-nil observers. NoOpObservers are dropped and nested MultiObservers are
// flattened, so a collection configured with several sinks pays for one loop.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver:
		case *MultiObserver:
			filtered = append(filtered, o.observers...)
		default:
			filtered = append(filtered, o)
		}
	}
	return &MultiObserver{observers: filtered}
}

// Len reports how many observers receive events.
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
