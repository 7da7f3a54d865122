// Package main hosts the logsetup CLI.
//
// The commands exercise the logging package against the real process: detect
// reports how stderr is attached and which output mode would be chosen, emit
// installs the process logger and writes one record per level, and config
// scaffolds or validates the TOML file that supplies logger defaults.
package main
