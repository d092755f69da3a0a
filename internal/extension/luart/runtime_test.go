package luart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

// writeModule drops a single-file module into dir.
func writeModule(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".lua"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing module: %v", err)
	}
}

func TestLoadSingleFileModule(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "finder", `
local M = {}
function M.setup(opts) M.opts = opts end
return M
`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("finder")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if mod.Name() != "finder" {
		t.Errorf("Name() = %q, want finder", mod.Name())
	}
}

func TestLoadDirectoryModule(t *testing.T) {
	dir := t.TempDir()
	modDir := filepath.Join(dir, "treesitter")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modDir, "init.lua"), []byte("return {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	rt := NewRuntime(dir)
	defer rt.Close()

	if _, err := rt.Load("treesitter"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
}

func TestLoadMissingModule(t *testing.T) {
	rt := NewRuntime(t.TempDir())
	defer rt.Close()

	_, err := rt.Load("ghost")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("error = %v, want ErrModuleNotFound", err)
	}
}

func TestLoadModuleMustReturnTable(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "broken", `return 42`)

	rt := NewRuntime(dir)
	defer rt.Close()

	_, err := rt.Load("broken")
	if !errors.Is(err, ErrNotAModule) {
		t.Errorf("error = %v, want ErrNotAModule", err)
	}
}

func TestLoadModuleWithSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "bad", `this is not lua (`)

	rt := NewRuntime(dir)
	defer rt.Close()

	if _, err := rt.Load("bad"); err == nil {
		t.Error("Load succeeded, want error")
	}
}

func TestSetupReceivesOptions(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "finder", `
local M = {}
function M.setup(opts)
  if opts.keyword_length ~= 2 then error("wrong keyword_length") end
  if opts.hidden ~= true then error("wrong hidden") end
  if opts.exclude[1] ~= ".git" then error("wrong exclude") end
end
return M
`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("finder")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	err = mod.Setup(map[string]any{
		"keyword_length": 2,
		"hidden":         true,
		"exclude":        []any{".git"},
	})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
}

func TestSetupErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "flaky", `
return { setup = function() error("refused") end }
`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("flaky")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := mod.Setup(nil); err == nil {
		t.Error("Setup succeeded, want error")
	}
}

func TestSetupWithoutFunction(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "plain", `return {}`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("plain")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// No options: fine.
	if err := mod.Setup(nil); err != nil {
		t.Errorf("Setup(nil) error: %v", err)
	}

	// Options with nowhere to go: error.
	err = mod.Setup(map[string]any{"x": 1})
	if !errors.Is(err, ErrNoSetup) {
		t.Errorf("error = %v, want ErrNoSetup", err)
	}
}

func TestCapabilities(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "completion", `
local M = {}
function M.capabilities()
  return {
    textDocument = {
      completion = {
        completionItem = { snippetSupport = true },
      },
    },
  }
end
return M
`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("completion")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	caps, err := mod.Capabilities()
	if err != nil {
		t.Fatalf("Capabilities error: %v", err)
	}
	got := gjson.GetBytes(caps, "textDocument.completion.completionItem.snippetSupport")
	if !got.Bool() {
		t.Errorf("snippetSupport = %v, want true (json: %s)", got, caps)
	}
}

func TestCapabilitiesAbsent(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "finder", `return {}`)

	rt := NewRuntime(dir)
	defer rt.Close()

	mod, err := rt.Load("finder")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	caps, err := mod.Capabilities()
	if err != nil {
		t.Fatalf("Capabilities error: %v", err)
	}
	if caps != nil {
		t.Errorf("caps = %s, want nil", caps)
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "finder", `
return { setup = function() end }
`)

	rt := NewRuntime(dir)
	defer rt.Close()

	probe := rt.Probe("finder")
	h, err := probe(context.Background())
	if err != nil {
		t.Fatalf("probe error: %v", err)
	}
	if h.Name() != "finder" {
		t.Errorf("Name() = %q, want finder", h.Name())
	}
	if err := h.Configure(map[string]any{}); err != nil {
		t.Errorf("Configure error: %v", err)
	}

	// Missing module: probe fails, never panics.
	if _, err := rt.Probe("ghost")(context.Background()); err == nil {
		t.Error("probe(ghost) succeeded, want error")
	}
}

func TestFirstSearchPathWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, first, "finder", `return { from = "first" }`)
	writeModule(t, second, "finder", `return { from = "second" }`)

	rt := NewRuntime(first, second)
	defer rt.Close()

	mod, err := rt.Load("finder")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	from := rt.state.L.GetField(mod.table, "from")
	if from.String() != "first" {
		t.Errorf("loaded from %q, want first path", from.String())
	}
}
