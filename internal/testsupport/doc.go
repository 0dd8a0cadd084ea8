// Package testsupport builds filesystem fixtures for archivist tests: source
// trees with pinned modification times, snapshots for purity checks, and a
// fault-injecting filesystem wrapper.
package testsupport
