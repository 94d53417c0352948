package view

import "errors"

// ErrNilSource is returned when a view is created without a source.
var ErrNilSource = errors.New("view source is nil")
