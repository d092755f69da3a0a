package lsp

import "fmt"

// ServerConfig describes how to reach one language server.
type ServerConfig struct {
	// Name identifies the server (e.g. "gopls").
	Name string

	// Command is the executable the host will spawn.
	Command string

	// Args are passed to the command.
	Args []string

	// Filetypes lists the file types the server handles.
	Filetypes []string

	// Settings is the server-specific settings block sent on
	// initialization.
	Settings map[string]any
}

// builtinServers are the server descriptions the loader knows out of the
// box. The config file selects which of these attach.
var builtinServers = map[string]ServerConfig{
	"gopls": {
		Name:      "gopls",
		Command:   "gopls",
		Filetypes: []string{"go", "gomod"},
		Settings: map[string]any{
			"gopls": map[string]any{
				"usePlaceholders":    true,
				"staticcheck":        true,
				"gofumpt":            true,
				"completeUnimported": true,
			},
		},
	},
	"lua_ls": {
		Name:      "lua_ls",
		Command:   "lua-language-server",
		Filetypes: []string{"lua"},
		Settings: map[string]any{
			"Lua": map[string]any{
				"diagnostics": map[string]any{
					"globals": []any{"vim", "editor"},
				},
				"telemetry": map[string]any{"enable": false},
			},
		},
	},
	"pyright": {
		Name:      "pyright",
		Command:   "pyright-langserver",
		Args:      []string{"--stdio"},
		Filetypes: []string{"python"},
	},
	"rust_analyzer": {
		Name:      "rust_analyzer",
		Command:   "rust-analyzer",
		Filetypes: []string{"rust"},
	},
	"ts_ls": {
		Name:      "ts_ls",
		Command:   "typescript-language-server",
		Args:      []string{"--stdio"},
		Filetypes: []string{"typescript", "javascript"},
	},
}

// LookupServer returns a built-in server description by name.
func LookupServer(name string) (ServerConfig, error) {
	cfg, ok := builtinServers[name]
	if !ok {
		return ServerConfig{}, fmt.Errorf("%w: %s", ErrUnknownServer, name)
	}
	return cfg, nil
}

// ServerNames returns the names of all built-in servers.
func ServerNames() []string {
	names := make([]string, 0, len(builtinServers))
	for name := range builtinServers {
		names = append(names, name)
	}
	return names
}
