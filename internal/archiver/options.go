package archiver

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"archivist/internal/failure"
	"archivist/internal/filter"
	"archivist/internal/period"
	"archivist/internal/planner"
	"archivist/internal/timestamps"
)

// Options is the validated configuration of a run.
type Options struct {
	Source      string
	Destination string
	// Strategy groups destinations under period labels; period.None mirrors
	// the source tree.
	Strategy           period.Strategy
	Kinds              []timestamps.Kind
	PreviousPeriodOnly bool
	// Cutoff excludes files not strictly older than it; zero disables it.
	Cutoff       time.Time
	IgnoredPaths []string
	// MinDepth and MaxDepth use filter.Unbounded when unset. A zero
	// MaxDepth keeps the walk at the root and matches no file.
	MinDepth         int
	MaxDepth         int
	FollowSymlinks   bool
	KeepEmptyFolders bool
	DryRun           bool
	Collision        planner.Policy
	// Location is where dates are classified; nil means UTC.
	Location     *time.Location
	VerifyCopies bool
}

// DefaultOptions returns options for the given roots with every other
// setting at its default.
func DefaultOptions(source, destination string) Options {
	return Options{
		Source:       source,
		Destination:  destination,
		Kinds:        timestamps.DefaultKinds(),
		MinDepth:     filter.Unbounded,
		MaxDepth:     filter.Unbounded,
		Collision:    planner.PolicyFail,
		Location:     time.UTC,
		VerifyCopies: true,
	}
}

// Validate reports configuration errors that must stop a run before any
// file is inspected. Every error wraps failure.ErrConfiguration.
func (o Options) Validate() error {
	if err := o.validate(); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "validate", "options", "", err)
	}
	return nil
}

func (o Options) validate() error {
	if o.Source == "" {
		return errors.New("source root is required")
	}
	if o.Destination == "" {
		return errors.New("destination root is required")
	}
	if !filepath.IsAbs(o.Source) || !filepath.IsAbs(o.Destination) {
		return errors.New("source and destination roots must be absolute")
	}
	source, destination := filepath.Clean(o.Source), filepath.Clean(o.Destination)
	if source == destination {
		return errors.New("source and destination must differ")
	}
	if filter.Within(source, destination) {
		return errors.New("source must not lie inside the destination")
	}
	if o.Strategy != period.None && !o.Strategy.Valid() {
		return fmt.Errorf("unknown grouping strategy %q", o.Strategy)
	}
	if o.PreviousPeriodOnly && !o.Strategy.Valid() {
		return errors.New("previous-period-only requires a grouping strategy")
	}
	if len(o.Kinds) == 0 {
		return errors.New("at least one file date type is required")
	}
	if o.MinDepth < filter.Unbounded || o.MaxDepth < filter.Unbounded {
		return errors.New("depth bounds must be non-negative")
	}
	if o.MinDepth >= 0 && o.MaxDepth >= 0 && o.MinDepth > o.MaxDepth {
		return fmt.Errorf("min depth %d exceeds max depth %d", o.MinDepth, o.MaxDepth)
	}
	if _, err := planner.ParsePolicy(string(o.Collision)); err != nil {
		return err
	}
	for _, p := range o.IgnoredPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("ignored path %q must be absolute", p)
		}
	}
	return nil
}
