// Package keymap provides the trigger table that maps key triggers to
// named actions.
//
// Triggers use a Vim-flavored notation: plain runes ("gd", "]d"),
// bracketed special keys ("<CR>", "<Esc>"), modified keys ("<C-s>",
// "<A-j>"), and the "<leader>" placeholder which is expanded at parse
// time. Parsed triggers are represented with tcell key and modifier
// values so the host editor can match them directly against terminal
// input events.
//
// Registration is last-wins: binding the same (trigger, mode) pair twice
// keeps only the later binding. The Table is rebuilt from scratch on each
// loader run, so repeated runs never accumulate entries.
package keymap
