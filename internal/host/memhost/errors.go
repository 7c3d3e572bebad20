package memhost

import "errors"

// Host errors.
var (
	// ErrInvalidBuffer is returned for unknown or deleted buffers.
	ErrInvalidBuffer = errors.New("invalid buffer")

	// ErrInvalidWindow is returned for unknown or closed windows.
	ErrInvalidWindow = errors.New("invalid window")

	// ErrLastWindow is returned when closing the only window.
	ErrLastWindow = errors.New("cannot close last window")

	// ErrNoGroup is returned when an event group does not exist.
	ErrNoGroup = errors.New("event group not found")

	// ErrNoKeymap is returned when deleting a binding that does not exist.
	ErrNoKeymap = errors.New("no such mapping")

	// ErrEmptyRhs is returned when a binding has no action.
	ErrEmptyRhs = errors.New("keymap has no action")

	// ErrSelfReference is returned when a window is placed relative to itself.
	ErrSelfReference = errors.New("window cannot be placed relative to itself")
)
