package change

import "errors"

// ErrInvalidEvent is returned when an event is constructed with fields that
// contradict its action. Correct callers never see it.
var ErrInvalidEvent = errors.New("invalid change event")
