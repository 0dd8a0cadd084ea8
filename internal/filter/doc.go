// Package filter decides which discovered files a run moves.
//
// A decision is an ordered, short-circuiting conjunction of independent
// predicates (ignore rules, depth bounds, age cutoff, previous-period rule,
// resolvable effective date). Every exclusion carries a reason so callers can
// report it as a deliberate skip rather than a failure.
package filter
