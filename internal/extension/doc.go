// Package extension implements best-effort activation of optional
// editor subsystems.
//
// Each optional subsystem is declared as a Descriptor with a name, an
// activation probe, a static options table and a binding list. The
// Loader walks the declared order once per run: it probes each
// descriptor, and on success applies the options through the returned
// handle and registers the descriptor's bindings. Any probe or
// configuration failure leaves the extension inactive and is swallowed
// after logging; startup never aborts because an optional subsystem is
// missing.
//
// Per-extension lifecycle is Declared -> Probing -> Active | Inactive.
// Both end states are terminal for the run; there is no re-probing and
// no deactivation.
package extension
