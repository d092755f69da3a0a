package keymap

// Mode identifies an editor mode a binding applies to.
type Mode string

// Editor modes.
const (
	ModeNormal   Mode = "normal"
	ModeInsert   Mode = "insert"
	ModeVisual   Mode = "visual"
	ModeTerminal Mode = "terminal"
)

// Binding maps a key trigger to a named action.
type Binding struct {
	// Keys is the trigger in notation form (e.g. "gd", "<leader>ff").
	Keys string

	// Modes lists the modes the binding applies to.
	// Empty means ModeNormal only.
	Modes []Mode

	// Action is the command the trigger invokes.
	// Examples: "find.files", "lsp.hover", "buffer.next".
	Action string

	// Description documents the binding for which-key style displays.
	Description string

	// Source names the extension that registered the binding.
	Source string
}

// NewBinding creates a binding for the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// InModes sets the modes for this binding.
func (b Binding) InModes(modes ...Mode) Binding {
	b.Modes = modes
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// EffectiveModes returns the binding's modes, defaulting to normal mode.
func (b Binding) EffectiveModes() []Mode {
	if len(b.Modes) == 0 {
		return []Mode{ModeNormal}
	}
	return b.Modes
}
