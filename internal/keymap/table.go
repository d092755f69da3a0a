package keymap

import (
	"fmt"
	"sort"
	"sync"
)

// Entry is a registered binding with its parsed trigger.
type Entry struct {
	Trigger Trigger
	Mode    Mode
	Binding Binding
}

// entryKey identifies a (trigger, mode) slot in the table.
type entryKey struct {
	trigger string
	mode    Mode
}

// Table holds all registered bindings for one loader run.
// Later registrations for the same (trigger, mode) pair overwrite earlier
// ones.
type Table struct {
	mu      sync.RWMutex
	parser  *Parser
	entries map[entryKey]Entry
}

// NewTable creates an empty trigger table.
// An empty leader falls back to DefaultLeader.
func NewTable(leader string) *Table {
	return &Table{
		parser:  NewParser(leader),
		entries: make(map[entryKey]Entry),
	}
}

// Bind registers a binding for each of its modes.
// The last registration for a (trigger, mode) pair wins.
func (t *Table) Bind(b Binding) error {
	if b.Keys == "" {
		return ErrEmptyTrigger
	}
	if b.Action == "" {
		return fmt.Errorf("%w: binding for %q", ErrEmptyAction, b.Keys)
	}

	trigger, err := t.parser.Parse(b.Keys)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, mode := range b.EffectiveModes() {
		t.entries[entryKey{trigger: trigger.String(), mode: mode}] = Entry{
			Trigger: trigger,
			Mode:    mode,
			Binding: b,
		}
	}
	return nil
}

// BindAll registers a list of bindings in order, stamping each with the
// given source. The first parse error aborts registration and is
// returned; earlier bindings stay registered.
func (t *Table) BindAll(source string, bindings []Binding) error {
	for _, b := range bindings {
		b.Source = source
		if err := t.Bind(b); err != nil {
			return fmt.Errorf("binding %q from %s: %w", b.Keys, source, err)
		}
	}
	return nil
}

// Lookup returns the entry for a trigger string in the given mode.
func (t *Table) Lookup(keys string, mode Mode) (Entry, bool) {
	trigger, err := t.parser.Parse(keys)
	if err != nil {
		return Entry{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[entryKey{trigger: trigger.String(), mode: mode}]
	return e, ok
}

// Entries returns all entries sorted by trigger then mode.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trigger.String() != out[j].Trigger.String() {
			return out[i].Trigger.String() < out[j].Trigger.String()
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}

// BySource returns all entries registered by the named source.
func (t *Table) BySource(source string) []Entry {
	var out []Entry
	for _, e := range t.Entries() {
		if e.Binding.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of registered (trigger, mode) slots.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear removes all entries.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[entryKey]Entry)
}
