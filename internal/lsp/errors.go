package lsp

import "errors"

// LSP errors.
var (
	// ErrUnknownServer is returned for server names with no built-in
	// description.
	ErrUnknownServer = errors.New("unknown language server")

	// ErrBadCapabilities is returned when a contributed capability
	// fragment cannot be merged.
	ErrBadCapabilities = errors.New("bad capability fragment")
)
