package config

import (
	"errors"
	"testing"
)

func TestLookupPreset(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := LookupPreset(name)
		if err != nil {
			t.Fatalf("LookupPreset(%s) error: %v", name, err)
		}
		if p.Name != name {
			t.Errorf("Name = %q, want %q", p.Name, name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("built-in preset %s failed validation: %v", name, err)
		}
	}

	// Empty name falls back to default.
	p, err := LookupPreset("")
	if err != nil {
		t.Fatalf("LookupPreset(\"\") error: %v", err)
	}
	if p.Name != "default" {
		t.Errorf("Name = %q, want default", p.Name)
	}

	if _, err := LookupPreset("neon"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("LookupPreset(neon) error = %v, want ErrUnknownPreset", err)
	}
}

func TestPresetsAreOneDesign(t *testing.T) {
	// The presets are cosmetic variants: same color groups, slate adds
	// exactly one extension.
	def, _ := LookupPreset("default")
	slate, _ := LookupPreset("slate")

	if len(def.Colors) != len(slate.Colors) {
		t.Errorf("color group count differs: %d vs %d", len(def.Colors), len(slate.Colors))
	}
	for group := range def.Colors {
		if _, ok := slate.Colors[group]; !ok {
			t.Errorf("slate missing color group %q", group)
		}
	}

	if len(def.ExtraExtensions) != 0 {
		t.Errorf("default has extra extensions: %v", def.ExtraExtensions)
	}
	if len(slate.ExtraExtensions) != 1 || slate.ExtraExtensions[0] != "statusline" {
		t.Errorf("slate extras = %v, want [statusline]", slate.ExtraExtensions)
	}
}

func TestPresetWithColors(t *testing.T) {
	def, _ := LookupPreset("default")

	merged := def.WithColors(map[string]string{
		"accent": "#ff00ff",
		"cursor": "#00ff00",
	})

	if got := merged.Colors["accent"]; got != "#ff00ff" {
		t.Errorf("accent = %q, want override", got)
	}
	if got := merged.Colors["cursor"]; got != "#00ff00" {
		t.Errorf("cursor = %q, want new group added", got)
	}
	if got := merged.Colors["error"]; got != def.Colors["error"] {
		t.Errorf("error = %q, want untouched preset value", got)
	}
	if err := merged.Validate(); err != nil {
		t.Errorf("merged preset failed validation: %v", err)
	}

	// The built-in table must not be mutated through the copy.
	fresh, _ := LookupPreset("default")
	if _, ok := fresh.Colors["cursor"]; ok {
		t.Error("override leaked into the built-in preset")
	}

	bad := def.WithColors(map[string]string{"accent": "purple-ish"})
	if err := bad.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Validate() error = %v, want ErrInvalidColor", err)
	}

	// Nil overrides return the preset unchanged.
	same := def.WithColors(nil)
	if len(same.Colors) != len(def.Colors) {
		t.Errorf("nil overrides changed colors: %v", same.Colors)
	}
}

func TestPresetValidateRejectsBadColor(t *testing.T) {
	p := Preset{
		Name:   "broken",
		Colors: map[string]string{"normal": "not-a-color"},
	}
	if err := p.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Validate error = %v, want ErrInvalidColor", err)
	}
}
