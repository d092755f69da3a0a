package config

import "errors"

// Configuration errors.
var (
	// ErrUnknownSetting is returned for keys the registry does not define.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidValue is returned when a value fails validation.
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrMalformedConfig is returned when the config file cannot be decoded.
	ErrMalformedConfig = errors.New("malformed config file")

	// ErrUnknownPreset is returned for preset names that are not built in.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidColor is returned when a preset color does not parse.
	ErrInvalidColor = errors.New("invalid color")
)
