// Package luart hosts the embedded Lua runtime that backs extensions.
//
// An extension is a Lua module on the runtime's search paths, either a
// single file ("finder.lua") or a directory with an entry point
// ("finder/init.lua"). The module file must return a table; a "setup"
// function on that table receives the extension's options, and an
// optional "capabilities" function lets the module contribute a
// client-capability fragment to the language-server client.
//
// The runtime opens only the safe Lua standard libraries. io, os, debug
// and package stay closed; extensions talk to the editor exclusively
// through the surfaces the host registers.
//
// The activation probe for a Lua-backed extension is simply a module
// load: a missing or broken module means the extension is unavailable.
package luart
