// Package report holds the terminal artifacts of an archive run: one
// MoveOutcome per discovered file, one CleanupOutcome per visited directory,
// and aggregated Stats.
package report
