// Package config loads, normalizes, and validates logsetup configuration.
//
// Settings live in a TOML file (default ~/.config/logsetup/config.toml, then
// ./logsetup.toml). Missing files fall back to repository defaults so the
// CLI works out of the box.
package config
