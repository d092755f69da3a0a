package luart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/mdevan/kindling/internal/extension"
)

// Runtime loads extension modules from its search paths into one shared
// Lua state.
type Runtime struct {
	state *State
	paths []string
}

// NewRuntime creates a runtime searching the given paths in order.
func NewRuntime(paths ...string) *Runtime {
	return &Runtime{
		state: NewState(),
		paths: paths,
	}
}

// Paths returns the configured search paths.
func (r *Runtime) Paths() []string {
	return r.paths
}

// Module is a loaded extension module.
type Module struct {
	state *State
	name  string
	table *lua.LTable
}

// resolve finds the module's entry point on the search paths.
// First path wins; within a path single files shadow directories.
func (r *Runtime) resolve(name string) (string, error) {
	for _, base := range r.paths {
		file := filepath.Join(base, name+".lua")
		if stat, err := os.Stat(file); err == nil && !stat.IsDir() {
			return file, nil
		}
		init := filepath.Join(base, name, "init.lua")
		if stat, err := os.Stat(init); err == nil && !stat.IsDir() {
			return init, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// Load resolves and executes a module.
// The module file must return a table.
func (r *Runtime) Load(name string) (*Module, error) {
	path, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	ret, err := r.state.RunFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %s", ErrNotAModule, name, ret.Type())
	}

	return &Module{state: r.state, name: name, table: tbl}, nil
}

// Probe returns an activation probe that loads the named module.
func (r *Runtime) Probe(name string) extension.ProbeFunc {
	return func(_ context.Context) (extension.Handle, error) {
		mod, err := r.Load(name)
		if err != nil {
			return nil, err
		}
		return &Handle{mod: mod}, nil
	}
}

// Close releases the shared Lua state.
func (r *Runtime) Close() {
	r.state.Close()
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Setup calls the module's setup function with the options table.
// A module without setup accepts only an empty options table.
func (m *Module) Setup(opts map[string]any) error {
	if !m.state.HasField(m.table, "setup") {
		if len(opts) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s has options but no setup", ErrNoSetup, m.name)
	}

	optsTable := m.state.ToLua(opts)
	if _, err := m.state.CallField(m.table, "setup", optsTable); err != nil {
		return fmt.Errorf("setup(%s): %w", m.name, err)
	}
	return nil
}

// Capabilities calls the module's capabilities function, if present, and
// returns the result as JSON. Modules without one return (nil, nil).
func (m *Module) Capabilities() ([]byte, error) {
	if !m.state.HasField(m.table, "capabilities") {
		return nil, nil
	}

	ret, err := m.state.CallField(m.table, "capabilities")
	if err != nil {
		return nil, fmt.Errorf("capabilities(%s): %w", m.name, err)
	}

	goVal := fromLua(ret)
	if goVal == nil {
		return nil, nil
	}
	return json.Marshal(goVal)
}

// Handle adapts a loaded module to the loader's handle contract.
type Handle struct {
	mod *Module
}

// Name returns the extension name.
func (h *Handle) Name() string {
	return h.mod.Name()
}

// Configure applies the options table via the module's setup function.
func (h *Handle) Configure(opts map[string]any) error {
	return h.mod.Setup(opts)
}

// ClientCapabilities returns the module's capability contribution, or
// nil when the module declares none.
func (h *Handle) ClientCapabilities() ([]byte, error) {
	return h.mod.Capabilities()
}

// Module returns the underlying module.
func (h *Handle) Module() *Module {
	return h.mod
}
