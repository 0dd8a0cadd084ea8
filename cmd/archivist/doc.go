// Package main hosts the archivist CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, applies flag overrides, and
// hands a validated set of options to internal/archiver. Rendering of reports
// and period tables lives here; the archiving logic does not.
package main
