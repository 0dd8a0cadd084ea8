package archiver

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"archivist/internal/cleanup"
	"archivist/internal/failure"
	"archivist/internal/filter"
	"archivist/internal/logging"
	"archivist/internal/mover"
	"archivist/internal/planner"
	"archivist/internal/preflight"
	"archivist/internal/report"
	"archivist/internal/scan"
	"archivist/internal/timestamps"
)

// ProgressFunc is called after each discovered file has an outcome.
type ProgressFunc func(done, total int, outcome report.MoveOutcome)

// Archiver executes runs with fixed options.
type Archiver struct {
	opts      Options
	fs        afero.Fs
	readTimes func(string, fs.FileInfo) timestamps.Times
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option customizes an Archiver.
type Option func(*Archiver)

// WithFS replaces the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(a *Archiver) {
		a.fs = fsys
	}
}

// WithTimesReader replaces the raw timestamp reader.
func WithTimesReader(read func(string, fs.FileInfo) timestamps.Times) Option {
	return func(a *Archiver) {
		a.readTimes = read
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(a *Archiver) {
		a.progress = fn
	}
}

// New returns an archiver. A nil logger discards output.
func New(opts Options, logger *slog.Logger, options ...Option) *Archiver {
	a := &Archiver{
		opts:      opts,
		fs:        afero.NewOsFs(),
		readTimes: timestamps.Read,
		logger:    logging.NewComponentLogger(logger, "archiver"),
	}
	for _, option := range options {
		option(a)
	}
	if a.opts.Location == nil {
		a.opts.Location = time.UTC
	}
	return a
}

// Run performs one archive pass. now anchors the previous-period rule. The
// report is returned even when the run is interrupted; the error is then
// non-nil and wraps failure.ErrInterrupted.
func (a *Archiver) Run(ctx context.Context, now time.Time) (*report.Report, error) {
	if err := a.opts.Validate(); err != nil {
		return nil, err
	}
	source := filepath.Clean(a.opts.Source)
	destination := filepath.Clean(a.opts.Destination)

	checks := preflight.RunAll(a.fs, source, destination, a.opts.DryRun)
	if err := preflight.Failed(checks); err != nil {
		return nil, failure.Wrap(failure.ErrEnvironment, "preflight", "check roots", "", err)
	}

	runID := uuid.NewString()
	logger := a.logger.With(logging.String(logging.FieldRunID, runID))
	rep := &report.Report{
		RunID:       runID,
		Source:      source,
		Destination: destination,
		StartedAt:   time.Now(),
		DryRun:      a.opts.DryRun,
	}

	ignore := a.ignoreSet(logger, source, destination)

	logger.Info("archive run started",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.String("group_by", a.opts.Strategy.String()),
		logging.Bool("dry_run", a.opts.DryRun),
	)

	walk := scan.Walk(a.fs, source, scan.Options{
		MaxDepth:       a.opts.MaxDepth,
		FollowSymlinks: a.opts.FollowSymlinks,
		Prune:          ignore.Contains,
		ReadTimes:      a.readTimes,
	})
	if walk.Symlinks > 0 {
		logger.Debug("symbolic links skipped", logging.Int("count", walk.Symlinks))
	}
	if walk.Cycles > 0 {
		logging.WarnWithContext(logger, "symbolic link cycles skipped", "symlink_cycle",
			logging.Int("count", walk.Cycles),
			logging.String(logging.FieldErrorHint, "remove links that point back to a parent directory"),
			logging.String(logging.FieldImpact, "files behind the links were visited once"),
		)
	}
	for _, problem := range walk.Problems {
		outcome := report.MoveOutcome{Source: problem.Path, Result: report.Failed, Reason: problem.Err.Error()}
		rep.Add(outcome)
		logging.WarnWithContext(logger, "path could not be inspected", "scan_failed",
			logging.String("path", problem.Path),
			logging.Error(problem.Err),
			logging.String(logging.FieldErrorHint, "check permissions on the source tree"),
			logging.String(logging.FieldImpact, "path left in place"),
		)
	}

	f := filter.New(filter.Rules{
		Ignore:             ignore,
		MinDepth:           a.opts.MinDepth,
		MaxDepth:           a.opts.MaxDepth,
		Cutoff:             a.opts.Cutoff,
		PreviousPeriodOnly: a.opts.PreviousPeriodOnly,
		Strategy:           a.opts.Strategy,
		Kinds:              a.opts.Kinds,
		Location:           a.opts.Location,
	})
	plan := planner.New(a.fs, destination, a.opts.Strategy, a.opts.Collision)
	move := mover.New(a.fs, a.opts.DryRun, logger, mover.WithVerification(a.opts.VerifyCopies))

	total := len(walk.Entries)
	var runErr error
	for i, entry := range walk.Entries {
		if runErr == nil {
			if err := ctx.Err(); err != nil {
				runErr = failure.Wrap(failure.ErrInterrupted, "archive", "move files", "", err)
				rep.Interrupted = true
				logging.WarnWithContext(logger, "run interrupted", "run_interrupted",
					logging.Int("remaining", total-i),
					logging.String(logging.FieldErrorHint, "run again to archive the remaining files"),
					logging.String(logging.FieldImpact, "remaining files left in place; cleanup skipped"),
				)
			}
		}
		var outcome report.MoveOutcome
		if runErr != nil {
			outcome = report.MoveOutcome{Source: entry.Path, Result: report.Skipped, Reason: report.ReasonInterrupted, Bytes: entry.Size}
		} else {
			outcome = a.process(logger, f, plan, move, entry, now)
		}
		rep.Add(outcome)
		if a.progress != nil {
			a.progress(i+1, total, outcome)
		}
	}

	if runErr == nil && !a.opts.DryRun && !a.opts.KeepEmptyFolders {
		rep.AddCleanup(cleanup.New(a.fs, ignore, logger).Run(source)...)
	}

	rep.FinishedAt = time.Now()
	stats := rep.Stats()
	logger.Info("archive run finished",
		logging.Int("moved", stats.Moved),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Int64("moved_bytes", stats.BytesMoved),
		logging.Int("folders_removed", stats.FoldersRemoved),
		logging.Duration(logging.FieldDuration, rep.Duration()),
	)
	return rep, runErr
}

func (a *Archiver) process(logger *slog.Logger, f *filter.Filter, plan *planner.Planner, move *mover.Mover, entry scan.Entry, now time.Time) report.MoveOutcome {
	decision := f.Evaluate(entry, now)
	if !decision.Include {
		logger.Debug("file skipped",
			logging.Args(append(logging.DecisionAttrs("filter", string(report.Skipped), string(decision.Reason)),
				logging.String("path", entry.Path))...)...,
		)
		return report.MoveOutcome{Source: entry.Path, Result: report.Skipped, Reason: string(decision.Reason), Bytes: entry.Size}
	}

	op, err := plan.Plan(entry, decision.Effective)
	if err != nil {
		logging.WarnWithContext(logger, "file could not be planned", "plan_failed",
			logging.String("path", entry.Path),
			logging.String("destination", op.Destination),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "choose another collision policy or clear the destination"),
			logging.String(logging.FieldImpact, "file left in place"),
		)
		return report.MoveOutcome{
			Source:      entry.Path,
			Destination: op.Destination,
			Label:       op.Label,
			Result:      report.Failed,
			Reason:      err.Error(),
			Bytes:       entry.Size,
		}
	}

	outcome := move.Execute(op)
	switch outcome.Result {
	case report.Failed:
		logging.WarnWithContext(logger, "file could not be moved", "move_failed",
			logging.String("path", entry.Path),
			logging.String("destination", op.Destination),
			logging.String("reason", outcome.Reason),
			logging.String(logging.FieldErrorHint, "check permissions and free space on the destination"),
			logging.String(logging.FieldImpact, "file left in place"),
		)
	default:
		logger.Debug("file processed",
			logging.Args(append(logging.DecisionAttrs("move", string(outcome.Result), outcome.Reason),
				logging.String("path", entry.Path),
				logging.String("destination", outcome.Destination),
				logging.String("method", string(outcome.Method)))...)...,
		)
	}
	return outcome
}

func (a *Archiver) ignoreSet(logger *slog.Logger, source, destination string) filter.IgnoreSet {
	ignore := filter.NewIgnoreSet(a.opts.IgnoredPaths...)
	for _, missing := range preflight.MissingPaths(a.fs, ignore.Paths()) {
		logging.WarnWithContext(logger, "ignored path does not exist", "ignored_path_missing",
			logging.String("path", missing),
			logging.String(logging.FieldErrorHint, "check the ignored paths setting for typos"),
			logging.String(logging.FieldImpact, "nothing is ignored for this entry"),
		)
	}
	if filter.Within(destination, source) {
		logger.Debug("destination lies inside source; ignoring it", logging.String("destination", destination))
		ignore = ignore.With(destination)
	}
	return ignore
}
