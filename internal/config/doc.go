// Package config loads, normalizes, and validates Stylus configuration.
//
// Configuration comes from a TOML file resolved in this order: an explicit
// --config path, ~/.config/stylus/config.toml, then a stylus.toml in the
// working directory. Missing files fall back to built-in defaults, so the
// tool runs with nothing but a catalog base URL configured.
//
// All path fields are expanded (~ and relative segments) during Load, and the
// [matcher] weights and thresholds are range-checked so the scoring pipeline
// never sees out-of-band values.
package config
