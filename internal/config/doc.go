// Package config provides the declarative configuration surface for the
// loader: a TOML config file, a typed registry of editor settings with
// validation, and built-in presets.
//
// Settings are flat key/value pairs applied once per loader run. The
// registry defines the known settings with their types, defaults and
// constraints; the store holds the values for one run. Two built-in
// presets ("default" and "slate") share every setting definition and
// differ only in colors and one extra extension.
package config
