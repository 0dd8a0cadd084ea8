// Package logging assembles the structured slog loggers used across archivist.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and the attribute helpers components use so every log line carries the same
// keys. When a log file is configured, records are fanned out to the console
// handler and a JSON handler on the file. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
