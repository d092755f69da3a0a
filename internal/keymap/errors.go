package keymap

import "errors"

// Keymap errors.
var (
	// ErrEmptyTrigger is returned when a binding has no key sequence.
	ErrEmptyTrigger = errors.New("empty trigger")

	// ErrEmptyAction is returned when a binding has no action.
	ErrEmptyAction = errors.New("empty action")

	// ErrInvalidTrigger is returned when trigger notation cannot be parsed.
	ErrInvalidTrigger = errors.New("invalid trigger")
)
