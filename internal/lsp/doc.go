// Package lsp describes language servers and attaches them for the host
// editor.
//
// The loader does not speak the language-server protocol itself; the
// host's built-in client does. This package owns the fixed server list,
// probes each server's executable, assembles the client-capability JSON
// (including fragments contributed by the completion extension), and
// hands one attach session per available server to the host through a
// shared attach configuration. Every server is attached independently
// and best-effort: a missing executable leaves that server detached and
// never aborts startup.
package lsp
