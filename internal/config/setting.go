package config

import "fmt"

// SettingType is the data type of a setting value.
type SettingType int

// Setting types.
const (
	TypeString SettingType = iota
	TypeInt
	TypeBool
)

// String returns the type name.
func (t SettingType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Setting defines one editor option with its metadata.
type Setting struct {
	// Key is the option name (e.g. "tab_width").
	Key string

	// Type is the value type.
	Type SettingType

	// Default is the value used when the config file does not set one.
	Default any

	// Description is human-readable documentation.
	Description string

	// Enum lists allowed values for string settings. Empty means any.
	Enum []string

	// Minimum and Maximum bound integer settings (nil means unbounded).
	Minimum *int
	Maximum *int
}

// Validate checks whether a value is acceptable for this setting.
func (s *Setting) Validate(value any) error {
	switch s.Type {
	case TypeString:
		sv, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrInvalidValue, s.Key, value)
		}
		if len(s.Enum) > 0 && !containsString(s.Enum, sv) {
			return fmt.Errorf("%w: %s must be one of %v", ErrInvalidValue, s.Key, s.Enum)
		}
	case TypeInt:
		iv, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: %s expects integer, got %T", ErrInvalidValue, s.Key, value)
		}
		if s.Minimum != nil && iv < *s.Minimum {
			return fmt.Errorf("%w: %s must be >= %d", ErrInvalidValue, s.Key, *s.Minimum)
		}
		if s.Maximum != nil && iv > *s.Maximum {
			return fmt.Errorf("%w: %s must be <= %d", ErrInvalidValue, s.Key, *s.Maximum)
		}
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s expects bool, got %T", ErrInvalidValue, s.Key, value)
		}
	}
	return nil
}

// normalize converts accepted representations to the canonical Go type.
func (s *Setting) normalize(value any) any {
	if s.Type == TypeInt {
		if iv, ok := toInt(value); ok {
			return iv
		}
	}
	return value
}

// toInt accepts the integer types TOML decoding can produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// intPtr is a helper for bounded settings.
func intPtr(n int) *int { return &n }
