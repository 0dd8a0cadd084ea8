package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"archivist/internal/archiver"
	"archivist/internal/config"
	"archivist/internal/failure"
	"archivist/internal/logging"
	"archivist/internal/metrics"
	"archivist/internal/runlock"
)

// errRunFailures marks a run that completed with per-file or cleanup failures.
var errRunFailures = errors.New("run completed with failures; see the report")

type runFlags struct {
	source        string
	destination   string
	groupBy       string
	previousOnly  bool
	olderThan     string
	fileDateTypes []string
	ignoredPaths  []string
	minDepth      int
	maxDepth      int
	keepEmpty     bool
	followLinks   bool
	dryRun        bool
	collision     string
	timezone      string
	showSkipped   bool
	json          bool
	progress      bool
	metricsFile   string
	noLock        bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Move old files from the source into the archive",
		Long: "Scan the source directory, move every file that passes the filters into the\n" +
			"destination (under a period folder when --group-by is set), then remove the\n" +
			"source folders the run emptied.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, ctx, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.source, "source", "s", "", "Directory to archive")
	f.StringVarP(&flags.destination, "destination", "d", "", "Root of the archive tree")
	f.StringVarP(&flags.groupBy, "group-by", "g", "", "Group by week, biweekly, month, trimester, quadrimester, semester, year or none")
	f.BoolVar(&flags.previousOnly, "previous-period-only", false, "Only move files dated before the current period")
	f.StringVar(&flags.olderThan, "older-than", "", "Only move files older than this (30d, 1y6M, P2W, 2025-01-15, 2025-01-15T06:30:53)")
	f.StringSliceVar(&flags.fileDateTypes, "file-date-types", nil, "Timestamps to consider: created, modified, accessed (or c, m, a)")
	f.StringSliceVar(&flags.ignoredPaths, "ignored-paths", nil, "Paths never touched; relative entries resolve against the source")
	f.IntVar(&flags.minDepth, "min-depth", 0, "Minimum file depth below the source (direct children are 1)")
	f.IntVar(&flags.maxDepth, "max-depth", 0, "Maximum file depth below the source")
	f.BoolVar(&flags.keepEmpty, "keep-empty-folders", false, "Leave emptied source folders in place")
	f.BoolVar(&flags.followLinks, "follow-symbolic-links", false, "Descend into symbolic links to directories")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Report what would happen without touching files")
	f.StringVar(&flags.collision, "collision", "", "When the destination exists: fail, skip, rename or overwrite")
	f.StringVar(&flags.timezone, "timezone", "", "Time zone for classifying dates: UTC (default), local or an IANA name")
	f.BoolVar(&flags.showSkipped, "show-skipped", false, "Include skipped files in the report table")
	f.BoolVar(&flags.json, "json", false, "Print the report as JSON")
	f.BoolVar(&flags.progress, "progress", false, "Show a progress bar on a terminal")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	f.BoolVar(&flags.noLock, "no-lock", false, "Do not take the per-source run lock")

	return cmd
}

func runArchive(cmd *cobra.Command, ctx *commandContext, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, cfg, flags); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "config", "apply flags", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "config", "validate", "", err)
	}

	logger, closeLog, err := ctx.newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	now := ctx.now()
	opts, err := archiveOptions(cfg, now)
	if err != nil {
		return failure.Wrap(failure.ErrConfiguration, "config", "older_than", "", err)
	}

	if !opts.DryRun && !flags.noLock {
		lock, err := runlock.Acquire(cfg.Paths.StateDir, opts.Source)
		if err != nil {
			return failure.Wrap(failure.ErrEnvironment, "lock", "acquire", "", err)
		}
		defer lock.Release()
		logger.Debug("run lock acquired", logging.String("lock", lock.Path()))
	}

	var extra []archiver.Option
	if flags.progress && !flags.json && isTerminal(cmd.ErrOrStderr()) {
		bar := newProgressReporter(cmd.ErrOrStderr(), opts.DryRun)
		defer bar.finish()
		extra = append(extra, archiver.WithProgress(bar.update))
	}

	rep, runErr := archiver.New(opts, logger, extra...).Run(cmd.Context(), now)
	if rep == nil {
		return runErr
	}

	if path := cfg.Metrics.Textfile; path != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(rep)
		if err := recorder.WriteTextfile(path); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the metrics directory is writable"),
				logging.String(logging.FieldImpact, "run metrics unavailable"),
			)
		}
	}

	if flags.json {
		if err := writeJSON(cmd, rep); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		renderReport(out, rep, flags.showSkipped, shouldColorize(out))
	}

	if runErr != nil {
		return runErr
	}
	if rep.HasFailures() {
		return errRunFailures
	}
	return nil
}

// applyRunFlags copies explicitly set flags over the loaded configuration and
// normalizes the result.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Paths.Source = flags.source
	}
	if changed("destination") {
		cfg.Paths.Destination = flags.destination
	}
	if changed("group-by") {
		cfg.Filters.GroupBy = flags.groupBy
	}
	if changed("previous-period-only") {
		cfg.Filters.PreviousPeriodOnly = flags.previousOnly
	}
	if changed("older-than") {
		cfg.Filters.OlderThan = flags.olderThan
	}
	if changed("file-date-types") {
		cfg.Filters.FileDateTypes = flags.fileDateTypes
	}
	if changed("ignored-paths") {
		cfg.Filters.IgnoredPaths = flags.ignoredPaths
	}
	if changed("min-depth") {
		depth := flags.minDepth
		cfg.Filters.MinDepth = &depth
	}
	if changed("max-depth") {
		depth := flags.maxDepth
		cfg.Filters.MaxDepth = &depth
	}
	if changed("keep-empty-folders") {
		cfg.Moves.KeepEmptyFolders = flags.keepEmpty
	}
	if changed("follow-symbolic-links") {
		cfg.Filters.FollowSymbolicLinks = flags.followLinks
	}
	if changed("dry-run") {
		cfg.Moves.DryRun = flags.dryRun
	}
	if changed("collision") {
		cfg.Moves.Collision = flags.collision
	}
	if changed("timezone") {
		cfg.Moves.Timezone = flags.timezone
	}
	if changed("metrics-file") {
		cfg.Metrics.Textfile = flags.metricsFile
	}
	return cfg.Normalize()
}

func archiveOptions(cfg *config.Config, now time.Time) (archiver.Options, error) {
	parsed := cfg.Parsed()
	cut, err := cfg.Cutoff(now)
	if err != nil {
		return archiver.Options{}, err
	}
	minDepth, maxDepth := cfg.DepthBounds()

	opts := archiver.DefaultOptions(cfg.Paths.Source, cfg.Paths.Destination)
	opts.Strategy = parsed.Strategy
	opts.Kinds = parsed.Kinds
	opts.PreviousPeriodOnly = cfg.Filters.PreviousPeriodOnly
	opts.Cutoff = cut
	opts.IgnoredPaths = cfg.ResolvedIgnoredPaths()
	opts.MinDepth = minDepth
	opts.MaxDepth = maxDepth
	opts.FollowSymlinks = cfg.Filters.FollowSymbolicLinks
	opts.KeepEmptyFolders = cfg.Moves.KeepEmptyFolders
	opts.DryRun = cfg.Moves.DryRun
	opts.Collision = parsed.Collision
	opts.Location = parsed.Location
	opts.VerifyCopies = cfg.Moves.VerifyCopies
	return opts, nil
}
