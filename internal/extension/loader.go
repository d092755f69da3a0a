package extension

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mdevan/kindling/internal/keymap"
)

// Result records the outcome of one descriptor's activation attempt.
type Result struct {
	// Name is the extension name.
	Name string

	// State is the terminal state reached.
	State State

	// Err is the swallowed failure, if any. Informational only.
	Err error
}

// Report summarizes one loader run.
type Report struct {
	Results []Result
}

// Active returns the names of extensions that activated.
func (r *Report) Active() []string {
	var names []string
	for _, res := range r.Results {
		if res.State == StateActive {
			names = append(names, res.Name)
		}
	}
	return names
}

// Inactive returns the names of extensions that did not activate.
func (r *Report) Inactive() []string {
	var names []string
	for _, res := range r.Results {
		if res.State == StateInactive {
			names = append(names, res.Name)
		}
	}
	return names
}

// Loader activates declared extensions best-effort and wires their
// bindings into the trigger table.
type Loader struct {
	log      zerolog.Logger
	registry *Registry
	keys     *keymap.Table
}

// NewLoader creates a loader that records activations in registry and
// registers bindings in keys.
func NewLoader(log zerolog.Logger, registry *Registry, keys *keymap.Table) *Loader {
	return &Loader{
		log:      log.With().Str("component", "loader").Logger(),
		registry: registry,
		keys:     keys,
	}
}

// Run processes descriptors in order, single-pass. Activation failures
// are swallowed: the failed extension stays inactive, its options are
// never applied, and none of its bindings reach the trigger table.
func (l *Loader) Run(ctx context.Context, descriptors []Descriptor) *Report {
	report := &Report{Results: make([]Result, 0, len(descriptors))}

	for _, d := range descriptors {
		l.registry.declare(d.Name)
		result := l.runOne(ctx, d)
		report.Results = append(report.Results, result)
	}

	return report
}

// runOne takes a single descriptor to a terminal state.
func (l *Loader) runOne(ctx context.Context, d Descriptor) Result {
	log := l.log.With().Str("extension", d.Name).Logger()

	l.registry.setState(d.Name, StateProbing)

	handle, err := l.probe(ctx, d)
	if err != nil {
		l.registry.setState(d.Name, StateInactive)
		log.Debug().Err(err).Msg("extension unavailable, skipping")
		return Result{Name: d.Name, State: StateInactive, Err: err}
	}

	l.registry.activate(d.Name, handle)

	if err := l.configure(handle, d.Options); err != nil {
		// A failed setup counts as a failed activation: demote and skip
		// the bindings so nothing references a half-configured extension.
		l.registry.deactivate(d.Name)
		log.Warn().Err(err).Msg("extension setup failed, leaving inactive")
		return Result{Name: d.Name, State: StateInactive, Err: err}
	}

	if err := l.keys.BindAll(d.Name, d.Bindings); err != nil {
		// Binding notation errors are declaration bugs; the extension
		// itself is already configured and stays active.
		log.Warn().Err(err).Msg("binding registration incomplete")
	}

	log.Info().Int("bindings", len(d.Bindings)).Msg("extension active")
	return Result{Name: d.Name, State: StateActive}
}

// probe runs the descriptor's probe with panic recovery.
func (l *Loader) probe(ctx context.Context, d Descriptor) (h Handle, err error) {
	if d.Probe == nil {
		return nil, ErrNoProbe
	}

	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("%w: %v", ErrProbePanic, r)
		}
	}()

	h, err = d.Probe(ctx)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrNotAvailable
	}
	return h, nil
}

// configure applies the options table with panic recovery.
func (l *Loader) configure(h Handle, opts map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSetupPanic, r)
		}
	}()
	return h.Configure(opts)
}
