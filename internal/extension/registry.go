package extension

import (
	"sync"

	"github.com/google/uuid"
)

// Active is an activated extension tracked by the registry.
type Active struct {
	// ID uniquely identifies this activation.
	ID string

	// Name is the extension name.
	Name string

	// Handle is the extension's capability surface.
	Handle Handle
}

// Registry resolves each declared extension once and answers downstream
// capability lookups. It replaces ad hoc existence checks: code asks the
// registry and branches on the answer.
type Registry struct {
	mu     sync.RWMutex
	states map[string]State
	active map[string]*Active
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]State),
		active: make(map[string]*Active),
	}
}

// declare records a descriptor before probing.
func (r *Registry) declare(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[name]; !ok {
		r.order = append(r.order, name)
	}
	r.states[name] = StateDeclared
}

// setState transitions an extension's state.
func (r *Registry) setState(name string, s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[name] = s
}

// activate records a successful activation.
func (r *Registry) activate(name string, h Handle) *Active {
	a := &Active{
		ID:     uuid.NewString(),
		Name:   name,
		Handle: h,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[name] = StateActive
	r.active[name] = a
	return a
}

// deactivate removes an activation whose configuration failed.
func (r *Registry) deactivate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[name] = StateInactive
	delete(r.active, name)
}

// Lookup returns the active handle for an extension, if any.
func (r *Registry) Lookup(name string) (*Active, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.active[name]
	return a, ok
}

// State returns the extension's lifecycle state.
// Unknown names report StateDeclared's zero value semantics via false.
func (r *Registry) State(name string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[name]
	return s, ok
}

// IsActive reports whether the extension activated.
func (r *Registry) IsActive(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// ActiveNames returns active extensions in declaration order.
func (r *Registry) ActiveNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.order {
		if _, ok := r.active[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Names returns all declared extensions in declaration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
