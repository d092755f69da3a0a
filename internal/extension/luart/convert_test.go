package luart

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestToLuaAndBack(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"float", 1.5, 1.5},
		{"string", "hi", "hi"},
		{"slice", []any{int64(1), "two"}, []any{int64(1), "two"}},
		{"string slice", []string{"a", "b"}, []any{"a", "b"}},
		{
			"map",
			map[string]any{"n": int64(1), "nested": map[string]any{"ok": true}},
			map[string]any{"n": int64(1), "nested": map[string]any{"ok": true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromLua(toLua(L, tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFromLuaBreaksCycles(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("self", tbl)

	got := fromLua(tbl)
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T, want map", got)
	}
	if m["self"] != nil {
		t.Errorf("self = %#v, want nil (cycle broken)", m["self"])
	}
}

func TestToLuaUnsupportedType(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if got := toLua(L, struct{}{}); got != lua.LNil {
		t.Errorf("toLua(struct) = %v, want nil", got)
	}
}
