package config

import (
	"fmt"
	"sort"
	"sync"
)

// Store holds the setting definitions and the values for one loader run.
// A fresh Store is built per run so repeated runs start from defaults.
type Store struct {
	mu       sync.RWMutex
	settings map[string]*Setting
	values   map[string]any
}

// NewStore creates a store with the built-in setting definitions.
func NewStore() *Store {
	s := &Store{
		settings: make(map[string]*Setting),
		values:   make(map[string]any),
	}
	s.registerDefaults()
	return s
}

// registerDefaults defines the editor options the loader knows about.
func (s *Store) registerDefaults() {
	defaults := []Setting{
		{Key: "number", Type: TypeBool, Default: true, Description: "Show absolute line numbers"},
		{Key: "relative_number", Type: TypeBool, Default: true, Description: "Show relative line numbers"},
		{Key: "tab_width", Type: TypeInt, Default: 4, Minimum: intPtr(1), Maximum: intPtr(16), Description: "Columns per tab"},
		{Key: "shift_width", Type: TypeInt, Default: 4, Minimum: intPtr(1), Maximum: intPtr(16), Description: "Columns per indent step"},
		{Key: "expand_tab", Type: TypeBool, Default: true, Description: "Insert spaces for tabs"},
		{Key: "smart_indent", Type: TypeBool, Default: true, Description: "Syntax-aware auto indent"},
		{Key: "wrap", Type: TypeBool, Default: false, Description: "Soft-wrap long lines"},
		{Key: "ignore_case", Type: TypeBool, Default: true, Description: "Case-insensitive search"},
		{Key: "smart_case", Type: TypeBool, Default: true, Description: "Case-sensitive search when pattern has capitals"},
		{Key: "true_color", Type: TypeBool, Default: true, Description: "Use 24-bit terminal colors"},
		{Key: "scroll_off", Type: TypeInt, Default: 8, Minimum: intPtr(0), Description: "Lines kept visible around the cursor"},
		{Key: "update_time", Type: TypeInt, Default: 250, Minimum: intPtr(50), Maximum: intPtr(5000), Description: "Idle milliseconds before background updates"},
		{Key: "sign_column", Type: TypeString, Default: "yes", Enum: []string{"yes", "no", "auto"}, Description: "Gutter sign column visibility"},
		{Key: "clipboard", Type: TypeString, Default: "unnamedplus", Enum: []string{"unnamed", "unnamedplus", "none"}, Description: "System clipboard integration"},
		{Key: "colorscheme", Type: TypeString, Default: "kindled-dark", Description: "Color scheme name"},
		{Key: "background", Type: TypeString, Default: "dark", Enum: []string{"dark", "light"}, Description: "Background tone"},
		{Key: "mouse", Type: TypeBool, Default: true, Description: "Enable mouse support"},
		{Key: "undo_persist", Type: TypeBool, Default: true, Description: "Persist undo history across sessions"},
	}

	for i := range defaults {
		def := defaults[i]
		s.settings[def.Key] = &def
		s.values[def.Key] = def.Default
	}
}

// Definition returns the setting definition for a key, or nil.
func (s *Store) Definition(key string) *Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings[key]
}

// Set validates and stores a value.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if err := def.Validate(value); err != nil {
		return err
	}
	s.values[key] = def.normalize(value)
	return nil
}

// Apply sets every key in values, in sorted key order so failures are
// deterministic. The first error aborts and is returned.
func (s *Store) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current value for a key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns a string setting, or the zero value if absent or
// mistyped.
func (s *Store) GetString(key string) string {
	if v, ok := s.Get(key); ok {
		if sv, ok := v.(string); ok {
			return sv
		}
	}
	return ""
}

// GetInt returns an integer setting, or zero if absent or mistyped.
func (s *Store) GetInt(key string) int {
	if v, ok := s.Get(key); ok {
		if iv, ok := toInt(v); ok {
			return iv
		}
	}
	return 0
}

// GetBool returns a boolean setting, or false if absent or mistyped.
func (s *Store) GetBool(key string) bool {
	if v, ok := s.Get(key); ok {
		if bv, ok := v.(bool); ok {
			return bv
		}
	}
	return false
}

// Snapshot returns a copy of all current values.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns all known setting keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
