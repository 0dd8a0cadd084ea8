// Package config loads, normalizes, and validates archivist configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and parses the textual settings (grouping strategy, date kinds,
// collision policy, time zone, older-than) into typed values once, so the CLI
// and the archiver receive sanitized input and clear validation errors.
package config
