package luart

import "errors"

// Lua runtime errors.
var (
	// ErrStateClosed is returned after the Lua state has been closed.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrModuleNotFound is returned when no entry point exists on the
	// search paths.
	ErrModuleNotFound = errors.New("module not found")

	// ErrNotAModule is returned when a module file does not return a table.
	ErrNotAModule = errors.New("module did not return a table")

	// ErrNoSetup is returned when options are given to a module without a
	// setup function.
	ErrNoSetup = errors.New("module has no setup function")

	// ErrNoSuchField is returned when a called table field is missing.
	ErrNoSuchField = errors.New("no such field")

	// ErrNotAFunction is returned when a called table field is not a
	// function.
	ErrNotAFunction = errors.New("field is not a function")
)
