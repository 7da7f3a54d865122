// Package logging installs the process-wide slog logger and picks its output
// shape from the environment the process was started in.
//
// Standard error is inspected once at startup: when systemd's JOURNAL_STREAM
// names the same device and inode as stderr, lines are written without
// timestamps or color because the journal stamps records itself. Otherwise an
// interactive terminal gets local timestamps and ANSI color, and redirected
// output gets the same timestamps without color.
//
// Verbosity is controlled by a filter string (LOG_FILTER, falling back to the
// caller's default) made of comma-separated `level` and `target=level`
// directives. Records are matched against the `target` attribute attached by
// NewTargetLogger.
//
// Call Setup first thing in main; it may succeed only once per process. Tests
// and tools that need a logger without touching global state use New with an
// explicit Environment.
package logging
