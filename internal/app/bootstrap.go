package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdevan/kindling/internal/config"
	"github.com/mdevan/kindling/internal/diag"
	"github.com/mdevan/kindling/internal/extension"
	"github.com/mdevan/kindling/internal/extension/luart"
	"github.com/mdevan/kindling/internal/keymap"
	"github.com/mdevan/kindling/internal/lsp"
)

// runOnce performs the loader sequence in order. Only configuration and
// bootstrap failures abort; everything downstream is best-effort.
func (a *Application) runOnce(ctx context.Context) (*Runtime, error) {
	// 1. Configuration.
	file, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}
	if a.opts.Preset != "" {
		file.Preset = a.opts.Preset
	}

	preset, err := config.LookupPreset(file.Preset)
	if err != nil {
		return nil, &InitError{Component: "preset", Err: err}
	}
	preset = preset.WithColors(file.Colors)
	if err := preset.Validate(); err != nil {
		return nil, &InitError{Component: "preset", Err: err}
	}

	// 2. Bootstrap. The one fatal path: no manager, no extensions.
	fetched, err := a.installer.Ensure(ctx, file.Bootstrap.ManagerPath, file.Bootstrap.ManagerURL)
	if err != nil {
		return nil, &InitError{Component: "bootstrap", Err: err}
	}
	if fetched {
		a.log.Info().Msg("extension manager bootstrapped")
	}

	// 3. Fresh runtime state.
	rt := &Runtime{
		File:       file,
		Preset:     preset,
		Settings:   config.NewStore(),
		Extensions: extension.NewRegistry(),
		Keys:       keymap.NewTable(file.Leader),
		lua:        luart.NewRuntime(a.extensionPaths(file)...),
	}

	// 4. Editor settings: preset first, config file overrides second.
	// Failure here abandons rt, so release its Lua state on the way out.
	if err := rt.Settings.Apply(preset.Settings); err != nil {
		rt.Close()
		return nil, &InitError{Component: "settings", Err: err}
	}
	if err := rt.Settings.Apply(file.Editor); err != nil {
		rt.Close()
		return nil, &InitError{Component: "settings", Err: err}
	}

	// 5. Extensions, in declared order.
	loader := extension.NewLoader(a.log, rt.Extensions, rt.Keys)
	rt.Report = loader.Run(ctx, a.descriptors(rt, file, preset))

	// 6-7. Language servers, gated on the client extension.
	rt.Sessions = a.attachServers(ctx, rt, file)

	// 8. Diagnostics presentation.
	rt.Presentation = diag.FromConfig(file.Diagnostics)
	if err := diag.Apply(a.presentationSink(), rt.Presentation); err != nil {
		a.log.Warn().Err(err).Msg("diagnostics presentation not applied")
	}

	a.log.Info().
		Strs("active", rt.Report.Active()).
		Strs("inactive", rt.Report.Inactive()).
		Int("bindings", rt.Keys.Len()).
		Int("servers", len(rt.Sessions)).
		Msg("loader run complete")

	return rt, nil
}

// extensionPaths returns the module search paths, most specific first.
func (a *Application) extensionPaths(file config.File) []string {
	paths := append([]string(nil), a.opts.ExtensionPaths...)
	managerDir := filepath.Dir(file.Bootstrap.ManagerPath)
	paths = append(paths, filepath.Join(managerDir, "extensions"))
	return paths
}

// attachServers wires the language-server manager. Servers attach only
// when the client extension activated; the completion extension's
// capability contribution is merged in first, best-effort.
func (a *Application) attachServers(ctx context.Context, rt *Runtime, file config.File) []lsp.Session {
	if !rt.Extensions.IsActive("lspconfig") {
		a.log.Debug().Msg("language-server client inactive, skipping server attachment")
		return nil
	}

	manager := lsp.NewManager(a.log, lsp.AttachConfig{
		Debounce: time.Duration(file.LSP.DebounceMS) * time.Millisecond,
		OnAttach: func(s lsp.Session) {
			a.log.Debug().Str("server", s.Server.Name).Str("session", s.ID).Msg("attach session ready")
		},
	})

	// One-directional enrichment: completion contributes, the client
	// consumes; an inactive contributor means defaults.
	if active, ok := rt.Extensions.Lookup("completion"); ok {
		if contributor, ok := active.Handle.(extension.CapabilityContributor); ok {
			fragment, err := contributor.ClientCapabilities()
			switch {
			case err != nil:
				a.log.Warn().Err(err).Msg("completion capability contribution failed, using defaults")
			case fragment != nil:
				if err := manager.SetClientCapabilities(fragment); err != nil {
					a.log.Warn().Err(err).Msg("capability merge failed, using defaults")
				}
			}
		}
	}

	for _, name := range file.LSP.Servers {
		cfg, err := lsp.LookupServer(name)
		if err != nil {
			a.log.Warn().Str("server", name).Msg("unknown server in config, skipping")
			continue
		}
		manager.Register(cfg)
	}

	rt.Servers = manager
	return manager.StartAll(ctx)
}

// presentationSink returns the host diagnostics surface. Until a host is
// attached this logs what would be applied.
func (a *Application) presentationSink() diag.Sink {
	return logSink{log: a.log}
}

// logSink reports the presentation through the logger.
type logSink struct {
	log zerolog.Logger
}

func (s logSink) ConfigurePresentation(p diag.Presentation) error {
	s.log.Debug().
		Bool("sort_by_severity", p.SortBySeverity).
		Bool("virtual_text", p.VirtualText).
		Bool("signs", p.Signs).
		Msg("diagnostics presentation configured")
	return nil
}
