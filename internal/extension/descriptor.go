package extension

import (
	"context"

	"github.com/mdevan/kindling/internal/keymap"
)

// State is the lifecycle state of a declared extension.
type State int

// Extension states.
const (
	// StateDeclared - the descriptor exists but has not been probed.
	StateDeclared State = iota

	// StateProbing - the activation probe is running.
	StateProbing

	// StateActive - the probe succeeded; options applied, bindings
	// registered.
	StateActive

	// StateInactive - the probe or configuration failed; the extension
	// is skipped for the rest of the run.
	StateInactive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateProbing:
		return "probing"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is an end state for the run.
func (s State) Terminal() bool {
	return s == StateActive || s == StateInactive
}

// ProbeFunc attempts to acquire an extension's capability.
// It returns a handle on success; any error (or a nil handle) leaves the
// extension inactive without aborting startup.
type ProbeFunc func(ctx context.Context) (Handle, error)

// Descriptor declares one optional subsystem.
type Descriptor struct {
	// Name uniquely identifies the extension.
	Name string

	// Probe attempts activation. Required.
	Probe ProbeFunc

	// Options is the static configuration applied through the handle
	// after a successful probe.
	Options map[string]any

	// Bindings are registered only if the probe succeeds.
	Bindings []keymap.Binding
}

// Handle is an activated extension's capability surface.
type Handle interface {
	// Name returns the extension name.
	Name() string

	// Configure applies the extension's options table.
	Configure(opts map[string]any) error
}

// CapabilityContributor is implemented by handles that enrich another
// extension's activation with a client-capability JSON fragment. The
// enrichment is one-directional and best-effort: consumers fall back to
// their defaults when the contributor is inactive.
type CapabilityContributor interface {
	ClientCapabilities() ([]byte, error)
}
