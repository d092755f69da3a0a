package app

import (
	"github.com/mdevan/kindling/internal/config"
	"github.com/mdevan/kindling/internal/extension"
	"github.com/mdevan/kindling/internal/keymap"
)

// descriptors builds the declared extension list in its fixed order:
// finder, treesitter, completion, lspconfig, then any preset extras.
// Config-file overrides can disable an extension or overlay its options.
func (a *Application) descriptors(rt *Runtime, file config.File, preset config.Preset) []extension.Descriptor {
	base := []extension.Descriptor{
		{
			Name:  "finder",
			Probe: rt.lua.Probe("finder"),
			Options: map[string]any{
				"hidden_files": false,
				"exclude":      []string{".git", "node_modules"},
			},
			Bindings: []keymap.Binding{
				keymap.NewBinding("<leader>ff", "find.files").WithDescription("Find files"),
				keymap.NewBinding("<leader>fg", "find.grep").WithDescription("Live grep"),
				keymap.NewBinding("<leader>fb", "find.buffers").WithDescription("Find buffers"),
			},
		},
		{
			Name:  "treesitter",
			Probe: rt.lua.Probe("treesitter"),
			Options: map[string]any{
				"ensure_installed": []string{"go", "lua", "python", "rust"},
				"highlight":        true,
			},
			Bindings: []keymap.Binding{
				keymap.NewBinding("<C-Space>", "selection.expand").WithDescription("Expand selection"),
			},
		},
		{
			Name:  "completion",
			Probe: rt.lua.Probe("completion"),
			Options: map[string]any{
				"keyword_length": 2,
				"max_items":      20,
				"preselect":      false,
			},
			Bindings: []keymap.Binding{
				keymap.NewBinding("<C-n>", "complete.next").InModes(keymap.ModeInsert).WithDescription("Next candidate"),
				keymap.NewBinding("<C-p>", "complete.prev").InModes(keymap.ModeInsert).WithDescription("Previous candidate"),
				keymap.NewBinding("<CR>", "complete.confirm").InModes(keymap.ModeInsert).WithDescription("Confirm candidate"),
				keymap.NewBinding("<C-e>", "complete.abort").InModes(keymap.ModeInsert).WithDescription("Abort completion"),
			},
		},
		{
			Name:  "lspconfig",
			Probe: rt.lua.Probe("lspconfig"),
			Bindings: []keymap.Binding{
				keymap.NewBinding("gd", "lsp.definition").WithDescription("Go to definition"),
				keymap.NewBinding("gr", "lsp.references").WithDescription("Find references"),
				keymap.NewBinding("K", "lsp.hover").WithDescription("Hover documentation"),
				keymap.NewBinding("<leader>rn", "lsp.rename").WithDescription("Rename symbol"),
				keymap.NewBinding("<leader>ca", "lsp.code_action").WithDescription("Code actions"),
				keymap.NewBinding("[d", "diagnostic.prev").WithDescription("Previous diagnostic"),
				keymap.NewBinding("]d", "diagnostic.next").WithDescription("Next diagnostic"),
			},
		},
	}

	for _, extra := range preset.ExtraExtensions {
		base = append(base, a.extraDescriptor(rt, extra))
	}

	var out []extension.Descriptor
	for _, d := range base {
		override := file.Extensions[d.Name]
		if !override.IsEnabled() {
			a.log.Debug().Str("extension", d.Name).Msg("extension disabled in config")
			continue
		}
		d.Options = overlayOptions(d.Options, override.Options)
		out = append(out, d)
	}
	return out
}

// extraDescriptor declares a preset-contributed extension.
func (a *Application) extraDescriptor(rt *Runtime, name string) extension.Descriptor {
	d := extension.Descriptor{
		Name:  name,
		Probe: rt.lua.Probe(name),
	}
	if name == "statusline" {
		d.Options = map[string]any{"style": rt.Preset.Name}
		d.Bindings = []keymap.Binding{
			keymap.NewBinding("<leader>tb", "statusline.toggle").WithDescription("Toggle statusline"),
		}
	}
	return d
}

// overlayOptions shallow-merges overrides onto defaults.
func overlayOptions(defaults, overrides map[string]any) map[string]any {
	if len(overrides) == 0 {
		return defaults
	}
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
