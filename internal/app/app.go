// Package app coordinates one loader run: configuration, bootstrap,
// extension activation, server attachment and diagnostics presentation.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mdevan/kindling/internal/bootstrap"
	"github.com/mdevan/kindling/internal/config"
	"github.com/mdevan/kindling/internal/diag"
	"github.com/mdevan/kindling/internal/extension"
	"github.com/mdevan/kindling/internal/extension/luart"
	"github.com/mdevan/kindling/internal/keymap"
	"github.com/mdevan/kindling/internal/lsp"
)

// Options configure the application.
type Options struct {
	// ConfigPath is the TOML config file. Empty uses defaults.
	ConfigPath string

	// Preset overrides the config file's preset selection.
	Preset string

	// LogLevel is debug, info, warn or error.
	LogLevel string

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer

	// ExtensionPaths are extra module search paths, checked first.
	ExtensionPaths []string

	// Watch re-runs the loader when the config file changes, overriding
	// the config file's own watch flag when true.
	Watch bool
}

// Runtime is the state produced by one loader run. A fresh Runtime is
// built per run; nothing carries over, so runs are idempotent.
type Runtime struct {
	// File is the decoded configuration.
	File config.File

	// Preset is the active preset.
	Preset config.Preset

	// Settings holds the applied editor options.
	Settings *config.Store

	// Extensions records which extensions activated.
	Extensions *extension.Registry

	// Keys is the final trigger table.
	Keys *keymap.Table

	// Report summarizes extension activation.
	Report *extension.Report

	// Servers is the language-server manager, nil when the client
	// extension did not activate.
	Servers *lsp.Manager

	// Sessions are the language-server attachments.
	Sessions []lsp.Session

	// Presentation is the diagnostics presentation in effect.
	Presentation diag.Presentation

	lua *luart.Runtime
}

// Close releases the runtime's Lua state.
func (rt *Runtime) Close() {
	if rt.lua != nil {
		rt.lua.Close()
	}
}

// Application runs the loader and optionally watches the config file.
type Application struct {
	log       zerolog.Logger
	opts      Options
	installer *bootstrap.Installer

	mu      sync.Mutex
	runtime *Runtime
	watcher *config.Watcher
}

// New creates an application.
func New(opts Options) *Application {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := NewLogger(opts.LogLevel, out)

	return &Application{
		log:       log,
		opts:      opts,
		installer: bootstrap.NewInstaller(log),
	}
}

// Logger returns the application logger.
func (a *Application) Logger() zerolog.Logger {
	return a.log
}

// Runtime returns the runtime from the most recent run.
func (a *Application) Runtime() *Runtime {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runtime
}

// Run executes one complete loader pass and stores the result.
func (a *Application) Run(ctx context.Context) (*Runtime, error) {
	rt, err := a.runOnce(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	old := a.runtime
	a.runtime = rt
	a.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return rt, nil
}

// WatchEnabled reports whether config watching was requested by flag or
// config file.
func (a *Application) WatchEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.opts.Watch {
		return true
	}
	return a.runtime != nil && a.runtime.File.Watch
}

// StartWatching re-runs the loader whenever the config file changes.
// Requires a config path; without one there is nothing to watch.
func (a *Application) StartWatching(ctx context.Context) error {
	if a.opts.ConfigPath == "" {
		return ErrNothingToWatch
	}

	w, err := config.NewWatcher(a.opts.ConfigPath, func(path string) {
		a.log.Info().Str("path", path).Msg("config changed, reloading")
		if _, err := a.Run(ctx); err != nil {
			a.log.Error().Err(err).Msg("reload failed, previous runtime kept")
		}
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

// Shutdown stops watching and releases the current runtime.
func (a *Application) Shutdown() {
	a.mu.Lock()
	w := a.watcher
	rt := a.runtime
	a.watcher = nil
	a.runtime = nil
	a.mu.Unlock()

	if w != nil {
		_ = w.Stop()
	}
	if rt != nil {
		rt.Close()
	}
}
