package extension

import "errors"

// Extension system errors.
var (
	// ErrNotAvailable is returned when a probe finds no capability.
	ErrNotAvailable = errors.New("extension not available")

	// ErrNoProbe is returned for descriptors declared without a probe.
	ErrNoProbe = errors.New("descriptor has no probe")

	// ErrProbePanic wraps a panic recovered from an activation probe.
	ErrProbePanic = errors.New("probe panicked")

	// ErrSetupPanic wraps a panic recovered from extension setup.
	ErrSetupPanic = errors.New("setup panicked")
)
