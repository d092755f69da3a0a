package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNothingToWatch is returned when watching is requested without a
	// config file.
	ErrNothingToWatch = errors.New("no config file to watch")
)

// InitError reports which startup component failed.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
