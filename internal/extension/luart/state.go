package luart

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps gopher-lua for extension execution.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes access
// from Go. Extension loading itself is single-pass and synchronous, so
// contention only matters for later interactive callbacks.
type State struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewState creates a Lua state with only the safe standard libraries.
func NewState() *State {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Base plus the pure libraries. io, os, debug and package are
	// intentionally not opened.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	return &State{L: L}
}

// RunFile executes a Lua file and returns its return value.
// Modules conventionally return a table; a file with no return yields
// lua.LNil.
func (s *State) RunFile(path string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	var ret lua.LValue = lua.LNil
	err := s.withRecovery(func() error {
		fn, err := s.L.LoadFile(path)
		if err != nil {
			return err
		}
		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// CallField calls a function field on a table with the given arguments,
// returning the first result.
func (s *State) CallField(tbl *lua.LTable, field string, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	fn := s.L.GetField(tbl, field)
	if fn == lua.LNil {
		return lua.LNil, fmt.Errorf("%w: %s", ErrNoSuchField, field)
	}
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%w: %s is a %s", ErrNotAFunction, field, fn.Type())
	}

	var ret lua.LValue = lua.LNil
	err := s.withRecovery(func() error {
		top := s.L.GetTop()
		s.L.Push(fn)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), 1, nil); err != nil {
			return err
		}
		if s.L.GetTop() > top {
			ret = s.L.Get(-1)
			s.L.Pop(s.L.GetTop() - top)
		}
		return nil
	})
	return ret, err
}

// HasField reports whether a table has a function field with the name.
func (s *State) HasField(tbl *lua.LTable, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	return s.L.GetField(tbl, field).Type() == lua.LTFunction
}

// ToLua converts a Go value into this state's Lua representation.
func (s *State) ToLua(v any) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return toLua(s.L, v)
}

// withRecovery converts Lua panics into errors.
func (s *State) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
