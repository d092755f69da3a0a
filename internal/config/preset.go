package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Preset is a named variant of the same configuration design. Presets
// share every setting definition and differ only in colors and in the
// extensions they add to the base descriptor list.
type Preset struct {
	// Name identifies the preset.
	Name string

	// Settings are editor option overrides applied before the config
	// file's own overrides.
	Settings map[string]any

	// Colors maps highlight group names to hex colors.
	Colors map[string]string

	// ExtraExtensions are appended to the base descriptor list.
	ExtraExtensions []string
}

// builtinPresets holds the two shipped variants. They are the same design
// with cosmetic differences, not separate systems.
var builtinPresets = map[string]Preset{
	"default": {
		Name: "default",
		Settings: map[string]any{
			"colorscheme": "kindled-dark",
			"background":  "dark",
		},
		Colors: map[string]string{
			"normal":  "#dcd7ba",
			"comment": "#727169",
			"accent":  "#7e9cd8",
			"warning": "#ff9e3b",
			"error":   "#e82424",
		},
	},
	"slate": {
		Name: "slate",
		Settings: map[string]any{
			"colorscheme": "kindled-slate",
			"background":  "dark",
		},
		Colors: map[string]string{
			"normal":  "#c9d1d9",
			"comment": "#8b949e",
			"accent":  "#58a6ff",
			"warning": "#d29922",
			"error":   "#f85149",
		},
		ExtraExtensions: []string{"statusline"},
	},
}

// LookupPreset returns a built-in preset by name.
func LookupPreset(name string) (Preset, error) {
	if name == "" {
		name = "default"
	}
	p, ok := builtinPresets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// PresetNames returns the names of the built-in presets.
func PresetNames() []string {
	return []string{"default", "slate"}
}

// WithColors returns a copy of the preset with the given color overrides
// merged in. The built-in preset is left untouched. Overrides are applied
// before Validate, so a bad color in the config file is caught at startup.
func (p Preset) WithColors(overrides map[string]string) Preset {
	if len(overrides) == 0 {
		return p
	}
	merged := make(map[string]string, len(p.Colors)+len(overrides))
	for group, hex := range p.Colors {
		merged[group] = hex
	}
	for group, hex := range overrides {
		merged[group] = hex
	}
	p.Colors = merged
	return p
}

// Validate checks that every preset color parses as a hex color.
func (p Preset) Validate() error {
	for group, hex := range p.Colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s.%s = %q", ErrInvalidColor, p.Name, group, hex)
		}
	}
	return nil
}
