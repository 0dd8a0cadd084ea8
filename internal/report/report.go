package report

import (
	"time"

	"github.com/samber/lo"
)

// Result classifies a move outcome.
type Result string

const (
	Moved   Result = "moved"
	Skipped Result = "skipped"
	Failed  Result = "failed"
)

// Method records how a moved file reached its destination.
type Method string

const (
	MethodNone    Method = ""
	MethodRename  Method = "rename"
	MethodCopy    Method = "copy"
	MethodPreview Method = "preview"
)

// Skip reasons that are not produced by the filter.
const (
	ReasonExists      = "exists"
	ReasonInterrupted = "interrupted"
)

// MoveOutcome describes what happened to one discovered file.
type MoveOutcome struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Label       string `json:"label,omitempty"`
	Result      Result `json:"result"`
	Reason      string `json:"reason,omitempty"`
	Bytes       int64  `json:"bytes"`
	Method      Method `json:"method,omitempty"`
}

// CleanupOutcome describes one directory visited by cleanup. Failed marks a
// directory kept because of an I/O error rather than because it held content.
type CleanupOutcome struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
	Failed  bool   `json:"failed,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Report is the full outcome of a run.
type Report struct {
	RunID       string           `json:"run_id"`
	Source      string           `json:"source"`
	Destination string           `json:"destination"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	DryRun      bool             `json:"dry_run"`
	Interrupted bool             `json:"interrupted,omitempty"`
	Moves       []MoveOutcome    `json:"moves"`
	Cleanup     []CleanupOutcome `json:"cleanup"`
}

// Stats aggregates counters and byte totals across a run.
type Stats struct {
	Total          int            `json:"total"`
	Moved          int            `json:"moved"`
	Skipped        int            `json:"skipped"`
	Failed         int            `json:"failed"`
	CopyFallbacks  int            `json:"copy_fallbacks"`
	BytesMoved     int64          `json:"bytes_moved"`
	SkipReasons    map[string]int `json:"skip_reasons,omitempty"`
	FoldersRemoved int            `json:"folders_removed"`
	FoldersKept    int            `json:"folders_kept"`
	FoldersFailed  int            `json:"folders_failed"`
}

// Add appends a move outcome.
func (r *Report) Add(outcome MoveOutcome) {
	r.Moves = append(r.Moves, outcome)
}

// AddCleanup appends cleanup outcomes.
func (r *Report) AddCleanup(outcomes ...CleanupOutcome) {
	r.Cleanup = append(r.Cleanup, outcomes...)
}

// Stats computes aggregate counters.
func (r *Report) Stats() Stats {
	byResult := lo.CountValuesBy(r.Moves, func(o MoveOutcome) Result { return o.Result })
	skipped := lo.Filter(r.Moves, func(o MoveOutcome, _ int) bool { return o.Result == Skipped })
	moved := lo.Filter(r.Moves, func(o MoveOutcome, _ int) bool { return o.Result == Moved })

	stats := Stats{
		Total:   len(r.Moves),
		Moved:   byResult[Moved],
		Skipped: byResult[Skipped],
		Failed:  byResult[Failed],
		CopyFallbacks: lo.CountBy(moved, func(o MoveOutcome) bool {
			return o.Method == MethodCopy
		}),
		BytesMoved: lo.SumBy(moved, func(o MoveOutcome) int64 { return o.Bytes }),
		FoldersRemoved: lo.CountBy(r.Cleanup, func(c CleanupOutcome) bool {
			return c.Removed
		}),
	}
	stats.FoldersFailed = len(r.CleanupFailures())
	stats.FoldersKept = len(r.Cleanup) - stats.FoldersRemoved
	if len(skipped) > 0 {
		stats.SkipReasons = lo.CountValuesBy(skipped, func(o MoveOutcome) string { return o.Reason })
	}
	return stats
}

// HasFailures reports whether any file failed to move or any directory could
// not be cleaned up.
func (r *Report) HasFailures() bool {
	return lo.SomeBy(r.Moves, func(o MoveOutcome) bool { return o.Result == Failed }) ||
		lo.SomeBy(r.Cleanup, func(c CleanupOutcome) bool { return c.Failed })
}

// CleanupFailures returns the cleanup outcomes that hit an I/O error.
func (r *Report) CleanupFailures() []CleanupOutcome {
	return lo.Filter(r.Cleanup, func(c CleanupOutcome, _ int) bool { return c.Failed })
}

// Failures returns the failed move outcomes in run order.
func (r *Report) Failures() []MoveOutcome {
	return r.ByResult(Failed)
}

// ByResult returns the outcomes with the given result in run order.
func (r *Report) ByResult(result Result) []MoveOutcome {
	return lo.Filter(r.Moves, func(o MoveOutcome, _ int) bool { return o.Result == result })
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
