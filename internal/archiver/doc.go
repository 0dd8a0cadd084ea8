// Package archiver runs one archive pass over a source tree.
//
// A run validates its Options, preflights the source and destination, walks
// the source, evaluates every file through the filter, plans a destination,
// executes the move, and finally removes directories the run left empty. The
// pass is strictly sequential; cancellation is honoured between files and
// leaves the remaining files reported as interrupted.
//
// Per-file problems never abort a run: they become failed outcomes in the
// returned report. Only configuration and environment errors stop a run
// before files are touched.
package archiver
