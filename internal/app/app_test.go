package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mdevan/kindling/internal/bootstrap"
	"github.com/mdevan/kindling/internal/config"
	"github.com/mdevan/kindling/internal/keymap"
)

// testEnv is a ready-to-run environment: a local manager install, a set
// of Lua extension modules and a config file pointing at both.
type testEnv struct {
	extDir      string
	managerPath string
	configPath  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()

	env := &testEnv{
		extDir:      filepath.Join(root, "extensions"),
		managerPath: filepath.Join(root, "manager", "manager.lua"),
		configPath:  filepath.Join(root, "kindling.toml"),
	}
	if err := os.MkdirAll(env.extDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(env.managerPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.managerPath, []byte("-- manager"), 0o644); err != nil {
		t.Fatal(err)
	}
	env.writeConfig(t, "")
	return env
}

// writeConfig writes the config file with the standard bootstrap section
// plus extra TOML.
func (e *testEnv) writeConfig(t *testing.T, extra string) {
	t.Helper()
	content := fmt.Sprintf("%s\n[bootstrap]\nmanager_path = %q\n", extra, e.managerPath)
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// addModule drops a Lua extension module into the search path.
func (e *testEnv) addModule(t *testing.T, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.extDir, name+".lua"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) options() Options {
	return Options{
		ConfigPath:     e.configPath,
		LogLevel:       "error",
		ExtensionPaths: []string{e.extDir},
	}
}

const plainModule = `return { setup = function() end }`

func TestRunActivatesPresentExtensions(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "finder", plainModule)
	env.addModule(t, "lspconfig", plainModule)
	// treesitter and completion intentionally absent.

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	active := rt.Report.Active()
	if len(active) != 2 || active[0] != "finder" || active[1] != "lspconfig" {
		t.Errorf("Active() = %v, want [finder lspconfig]", active)
	}

	// Active extensions' bindings are present.
	if _, ok := rt.Keys.Lookup("<leader>ff", keymap.ModeNormal); !ok {
		t.Error("finder binding missing")
	}
	if _, ok := rt.Keys.Lookup("gd", keymap.ModeNormal); !ok {
		t.Error("lspconfig binding missing")
	}

	// Inactive extensions contribute nothing.
	if _, ok := rt.Keys.Lookup("<C-n>", keymap.ModeInsert); ok {
		t.Error("completion binding present despite inactive extension")
	}
	if rt.Extensions.IsActive("treesitter") {
		t.Error("treesitter active, want inactive")
	}
}

func TestRunBootstrapFatalWhenManagerUnreachable(t *testing.T) {
	env := newTestEnv(t)
	if err := os.Remove(env.managerPath); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("[bootstrap]\nmanager_path = %q\nmanager_url = %q\n",
		env.managerPath, "http://127.0.0.1:1/manager.lua")
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(env.options())
	defer a.Shutdown()

	_, err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded without manager, want fatal bootstrap error")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "bootstrap" {
		t.Errorf("error = %v, want bootstrap InitError", err)
	}
	if !errors.Is(err, bootstrap.ErrFetchFailed) {
		t.Errorf("error = %v, want wrapped ErrFetchFailed", err)
	}
}

func TestRunIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "finder", plainModule)
	env.addModule(t, "completion", plainModule)

	a := New(env.options())
	defer a.Shutdown()

	first, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	firstEntries := first.Keys.Entries()

	second, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	secondEntries := second.Keys.Entries()

	if len(firstEntries) != len(secondEntries) {
		t.Fatalf("entry counts differ: %d vs %d", len(firstEntries), len(secondEntries))
	}
	for i := range firstEntries {
		if firstEntries[i].Trigger.String() != secondEntries[i].Trigger.String() ||
			firstEntries[i].Binding.Action != secondEntries[i].Binding.Action {
			t.Errorf("entry %d differs: %+v vs %+v", i, firstEntries[i], secondEntries[i])
		}
	}
}

func TestRunAppliesSettingsLayers(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "[editor]\ntab_width = 2\n")

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// Config file overlay.
	if got := rt.Settings.GetInt("tab_width"); got != 2 {
		t.Errorf("tab_width = %d, want 2", got)
	}
	// Preset layer.
	if got := rt.Settings.GetString("colorscheme"); got != "kindled-dark" {
		t.Errorf("colorscheme = %q, want kindled-dark", got)
	}
}

func TestRunSlatePreset(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "statusline", plainModule)

	opts := env.options()
	opts.Preset = "slate"
	a := New(opts)
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := rt.Settings.GetString("colorscheme"); got != "kindled-slate" {
		t.Errorf("colorscheme = %q, want kindled-slate", got)
	}
	if !rt.Extensions.IsActive("statusline") {
		t.Error("statusline inactive under slate preset")
	}
	if _, ok := rt.Keys.Lookup("<leader>tb", keymap.ModeNormal); !ok {
		t.Error("statusline binding missing")
	}
}

func TestRunDisabledExtensionIsNeverProbed(t *testing.T) {
	env := newTestEnv(t)
	// The module exists, but setup would blow up if ever called.
	env.addModule(t, "finder", `return { setup = function() error("must not run") end }`)
	env.writeConfig(t, "[extensions.finder]\nenabled = false\n")

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if rt.Extensions.IsActive("finder") {
		t.Error("disabled extension active")
	}
	if _, ok := rt.Keys.Lookup("<leader>ff", keymap.ModeNormal); ok {
		t.Error("disabled extension's binding registered")
	}
}

func TestRunOptionOverridesReachSetup(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "finder", `
local M = {}
function M.setup(opts)
  if opts.hidden_files ~= true then error("override not applied") end
end
return M
`)
	env.writeConfig(t, "[extensions.finder.options]\nhidden_files = true\n")

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !rt.Extensions.IsActive("finder") {
		t.Error("finder inactive: option override did not reach setup")
	}
}

func TestRunCompletionEnrichesClientCapabilities(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "lspconfig", plainModule)
	env.addModule(t, "completion", `
local M = {}
function M.setup() end
function M.capabilities()
  return { textDocument = { completion = { contextSupport = true } } }
end
return M
`)

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rt.Servers == nil {
		t.Fatal("Servers manager missing despite active client extension")
	}

	caps := rt.Servers.ClientCapabilities()
	if !gjson.GetBytes(caps, "textDocument.completion.contextSupport").Bool() {
		t.Errorf("contributed capability missing: %s", caps)
	}
}

func TestRunWithoutClientExtensionSkipsServers(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "completion", plainModule)
	// lspconfig absent.

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rt.Servers != nil {
		t.Error("server manager built without the client extension")
	}
	if len(rt.Sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(rt.Sessions))
	}
}

func TestRunSetupFailureLeavesOthersAlone(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "finder", `return { setup = function() error("boom") end }`)
	env.addModule(t, "lspconfig", plainModule)

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rt.Extensions.IsActive("finder") {
		t.Error("finder active after setup failure")
	}
	if !rt.Extensions.IsActive("lspconfig") {
		t.Error("lspconfig inactive: one failure poisoned another extension")
	}
	if _, ok := rt.Keys.Lookup("<leader>ff", keymap.ModeNormal); ok {
		t.Error("failed extension's binding registered")
	}
}

func TestRunColorOverridesMergeIntoPreset(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "[colors]\naccent = \"#ff00ff\"\n")

	a := New(env.options())
	defer a.Shutdown()

	rt, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := rt.Preset.Colors["accent"]; got != "#ff00ff" {
		t.Errorf("accent = %q, want override applied", got)
	}
	// Non-overridden groups keep the preset value.
	if got := rt.Preset.Colors["error"]; got != "#e82424" {
		t.Errorf("error = %q, want preset default", got)
	}
}

func TestRunRejectsInvalidColorOverride(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "[colors]\naccent = \"notahex\"\n")

	a := New(env.options())
	defer a.Shutdown()

	_, err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run accepted an invalid color override")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "preset" {
		t.Errorf("error = %v, want preset InitError", err)
	}
	if !errors.Is(err, config.ErrInvalidColor) {
		t.Errorf("error = %v, want wrapped ErrInvalidColor", err)
	}
}

func TestRunRejectsUnknownEditorSetting(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "[editor]\nbogus = 1\n")

	a := New(env.options())
	defer a.Shutdown()

	_, err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run accepted an unknown editor setting")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "settings" {
		t.Errorf("error = %v, want settings InitError", err)
	}
	if !errors.Is(err, config.ErrUnknownSetting) {
		t.Errorf("error = %v, want wrapped ErrUnknownSetting", err)
	}
}

func TestWatchReloadProducesFreshRuntime(t *testing.T) {
	env := newTestEnv(t)
	env.addModule(t, "finder", plainModule)
	env.writeConfig(t, "watch = true\n[editor]\ntab_width = 4\n")

	a := New(env.options())
	defer a.Shutdown()

	first, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := first.Settings.GetInt("tab_width"); got != 4 {
		t.Fatalf("tab_width = %d, want 4", got)
	}
	if !a.WatchEnabled() {
		t.Fatal("WatchEnabled() = false with watch = true in config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.StartWatching(ctx); err != nil {
		t.Fatalf("StartWatching error: %v", err)
	}

	env.writeConfig(t, "watch = true\n[editor]\ntab_width = 8\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rt := a.Runtime()
		if rt != first && rt.Settings.GetInt("tab_width") == 8 {
			if !rt.Extensions.IsActive("finder") {
				t.Error("finder inactive after reload")
			}
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("runtime never replaced after config change")
}

func TestStartWatchingRequiresConfigPath(t *testing.T) {
	a := New(Options{LogLevel: "error"})
	defer a.Shutdown()

	if err := a.StartWatching(context.Background()); !errors.Is(err, ErrNothingToWatch) {
		t.Errorf("error = %v, want ErrNothingToWatch", err)
	}
}
