package relog

import "errors"

var (
	// ErrNoAdapter is returned by Builder.Build when no adapter was set.
	ErrNoAdapter = errors.New("relog: builder has no adapter")

	// ErrNoConfigure is returned when a logger is created or reloaded
	// without a configuration callback.
	ErrNoConfigure = errors.New("relog: configuration callback is nil")

	// ErrFrozen is returned by Reload and Freeze once Freeze has succeeded.
	ErrFrozen = errors.New("relog: logger is frozen")
)
