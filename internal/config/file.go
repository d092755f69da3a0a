package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk configuration, decoded from TOML.
type File struct {
	// Preset selects a built-in preset ("default" or "slate").
	Preset string `toml:"preset"`

	// Leader is the leader key for trigger notation.
	Leader string `toml:"leader"`

	// Watch re-runs the loader when the config file changes.
	Watch bool `toml:"watch"`

	// Editor holds flat editor option overrides.
	Editor map[string]any `toml:"editor"`

	// Colors overrides preset highlight colors by group name.
	Colors map[string]string `toml:"colors"`

	// Bootstrap configures the extension-manager fetch.
	Bootstrap Bootstrap `toml:"bootstrap"`

	// Extensions holds per-extension overrides keyed by extension name.
	Extensions map[string]Extension `toml:"extensions"`

	// LSP configures language-server attachment.
	LSP LSP `toml:"lsp"`

	// Diagnostics configures diagnostics presentation.
	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Bootstrap configures the one-time extension-manager install.
type Bootstrap struct {
	// ManagerPath is where the extension manager lives locally.
	ManagerPath string `toml:"manager_path"`

	// ManagerURL is the pinned release URL fetched when the path is
	// missing.
	ManagerURL string `toml:"manager_url"`
}

// Extension holds per-extension configuration overrides.
type Extension struct {
	// Enabled disables the extension when set to false.
	// Nil means enabled.
	Enabled *bool `toml:"enabled"`

	// Options override the extension's default options table.
	Options map[string]any `toml:"options"`
}

// IsEnabled reports whether the extension should be probed at all.
func (e Extension) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// LSP configures the language-server manager.
type LSP struct {
	// DebounceMS is the shared text-change debounce, in milliseconds.
	DebounceMS int `toml:"debounce_ms"`

	// Servers is the fixed, ordered list of server names to attach.
	Servers []string `toml:"servers"`
}

// Diagnostics configures diagnostics presentation.
type Diagnostics struct {
	// SortBySeverity orders diagnostics most severe first.
	SortBySeverity bool `toml:"sort_by_severity"`

	// VirtualText shows diagnostics inline after the offending line.
	VirtualText bool `toml:"virtual_text"`

	// VirtualTextPrefix is the inline marker.
	VirtualTextPrefix string `toml:"virtual_text_prefix"`

	// Signs shows gutter signs for diagnostics.
	Signs bool `toml:"signs"`

	// UpdateInInsert refreshes diagnostics while typing.
	UpdateInInsert bool `toml:"update_in_insert"`
}

// DefaultBootstrapURL is the pinned release channel for the extension
// manager.
const DefaultBootstrapURL = "https://releases.kindling.dev/manager/stable/manager.lua"

// Default returns the configuration used when no file is present.
func Default() File {
	return File{
		Preset: "default",
		Leader: " ",
		Editor: map[string]any{},
		Bootstrap: Bootstrap{
			ManagerPath: defaultManagerPath(),
			ManagerURL:  DefaultBootstrapURL,
		},
		Extensions: map[string]Extension{},
		LSP: LSP{
			DebounceMS: 150,
			Servers:    []string{"gopls", "lua_ls", "pyright"},
		},
		Diagnostics: Diagnostics{
			SortBySeverity:    true,
			VirtualText:       true,
			VirtualTextPrefix: "●",
			Signs:             true,
			UpdateInInsert:    false,
		},
	}
}

// defaultManagerPath returns the default local install path for the
// extension manager.
func defaultManagerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kindling", "manager", "manager.lua")
	}
	return filepath.Join(home, ".local", "share", "kindling", "manager", "manager.lua")
}

// Load reads and decodes a config file, layered over Default.
// A missing path returns the defaults without error; a malformed file is
// an error.
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %s: %v", ErrMalformedConfig, path, err)
	}

	f.Bootstrap.ManagerPath = expandHome(f.Bootstrap.ManagerPath)
	if f.Bootstrap.ManagerPath == "" {
		f.Bootstrap.ManagerPath = defaultManagerPath()
	}
	if f.Bootstrap.ManagerURL == "" {
		f.Bootstrap.ManagerURL = DefaultBootstrapURL
	}
	if f.Leader == "" {
		f.Leader = " "
	}
	if f.LSP.DebounceMS <= 0 {
		f.LSP.DebounceMS = 150
	}

	return f, nil
}

// expandHome expands a leading "~/" to the user home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
