package filter

import (
	"time"

	"archivist/internal/period"
	"archivist/internal/scan"
	"archivist/internal/timestamps"
)

// Unbounded disables a depth bound.
const Unbounded = -1

// Reason explains why a file was excluded.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonIgnored       Reason = "ignored"
	ReasonDepth         Reason = "depth"
	ReasonTooRecent     Reason = "too_recent"
	ReasonCurrentPeriod Reason = "current_period"
	ReasonNoTimestamp   Reason = "no_timestamp"
)

// Rules configures a Filter.
type Rules struct {
	Ignore IgnoreSet
	// MinDepth and MaxDepth bound entry depth (direct children of the root
	// are 1). Use Unbounded to disable a bound; a zero MaxDepth excludes
	// every file.
	MinDepth int
	MaxDepth int
	// Cutoff excludes files whose effective date is not strictly before it.
	// The zero value disables the age rule.
	Cutoff             time.Time
	PreviousPeriodOnly bool
	Strategy           period.Strategy
	Kinds              []timestamps.Kind
	// Location is where dates are classified into periods; nil means UTC.
	Location *time.Location
}

// Decision is the outcome of evaluating one entry.
type Decision struct {
	Include   bool
	Reason    Reason
	Effective time.Time
	Resolved  bool
}

// Filter evaluates entries against a fixed rule set.
type Filter struct {
	rules Rules
}

// New builds a filter. Rules are assumed validated: min ≤ max and a strategy
// present whenever PreviousPeriodOnly is set.
func New(rules Rules) *Filter {
	if len(rules.Kinds) == 0 {
		rules.Kinds = timestamps.DefaultKinds()
	}
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	return &Filter{rules: rules}
}

// Evaluate applies the predicates in order and stops at the first exclusion.
func (f *Filter) Evaluate(entry scan.Entry, now time.Time) Decision {
	if !NotIgnored(f.rules.Ignore, entry.Path) {
		return Decision{Reason: ReasonIgnored}
	}
	if !WithinDepth(entry.Depth, f.rules.MinDepth, f.rules.MaxDepth) {
		return Decision{Reason: ReasonDepth}
	}

	effective, resolved := timestamps.Resolve(entry.Times, f.rules.Kinds)
	if resolved {
		effective = effective.In(f.rules.Location)
	}
	decision := Decision{Effective: effective, Resolved: resolved}

	if !f.rules.Cutoff.IsZero() {
		if !resolved {
			decision.Reason = ReasonNoTimestamp
			return decision
		}
		if !OlderThan(effective, f.rules.Cutoff) {
			decision.Reason = ReasonTooRecent
			return decision
		}
	}
	if f.rules.PreviousPeriodOnly && f.rules.Strategy.Valid() {
		if !resolved {
			decision.Reason = ReasonNoTimestamp
			return decision
		}
		if !InPreviousPeriod(effective, f.rules.Strategy, now.In(f.rules.Location)) {
			decision.Reason = ReasonCurrentPeriod
			return decision
		}
	}
	if !resolved {
		decision.Reason = ReasonNoTimestamp
		return decision
	}
	decision.Include = true
	return decision
}

// NotIgnored reports whether path survives the ignore rules.
func NotIgnored(ignore IgnoreSet, path string) bool {
	return !ignore.Contains(path)
}

// WithinDepth reports whether depth lies within [min, max]; a negative bound
// is unbounded.
func WithinDepth(depth, min, max int) bool {
	if min >= 0 && depth < min {
		return false
	}
	if max >= 0 && depth > max {
		return false
	}
	return true
}

// OlderThan reports whether effective strictly precedes cutoff.
func OlderThan(effective, cutoff time.Time) bool {
	return effective.Before(cutoff)
}

// InPreviousPeriod reports whether effective falls in a period before now's.
func InPreviousPeriod(effective time.Time, strategy period.Strategy, now time.Time) bool {
	return period.IsBeforeCurrent(effective, strategy, now)
}
