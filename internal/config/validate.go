package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"archivist/internal/cutoff"
	"archivist/internal/filter"
	"archivist/internal/logging"
	"archivist/internal/period"
)

// Validate ensures the configuration is usable for a run. It expects
// Normalize to have been called.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFilters(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.Source == "" {
		return errors.New("paths.source must be set (or pass --source)")
	}
	if c.Paths.Destination == "" {
		return errors.New("paths.destination must be set (or pass --destination)")
	}
	if filepath.Clean(c.Paths.Source) == filepath.Clean(c.Paths.Destination) {
		return errors.New("paths.source and paths.destination must differ")
	}
	if filter.Within(c.Paths.Source, c.Paths.Destination) {
		return errors.New("paths.source must not lie inside paths.destination")
	}
	return nil
}

func (c *Config) validateFilters() error {
	if c.Filters.PreviousPeriodOnly && c.parsed.Strategy == period.None {
		return errors.New("filters.previous_period_only requires filters.group_by")
	}
	if c.Filters.MinDepth != nil && *c.Filters.MinDepth < 0 {
		return errors.New("filters.min_depth must be non-negative")
	}
	if c.Filters.MaxDepth != nil && *c.Filters.MaxDepth < 0 {
		return errors.New("filters.max_depth must be non-negative")
	}
	if c.Filters.MinDepth != nil && c.Filters.MaxDepth != nil && *c.Filters.MinDepth > *c.Filters.MaxDepth {
		return fmt.Errorf("filters.min_depth (%d) must not exceed filters.max_depth (%d)", *c.Filters.MinDepth, *c.Filters.MaxDepth)
	}
	if len(c.parsed.Kinds) == 0 {
		return errors.New("filters.file_date_types must list at least one of created, modified, accessed")
	}
	if c.Filters.OlderThan != "" {
		if _, err := cutoff.Parse(c.Filters.OlderThan, time.Now(), time.Local); err != nil {
			return fmt.Errorf("filters.older_than: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Cutoff resolves filters.older_than relative to now. Dates without a zone
// are local wall-clock times regardless of moves.timezone. The zero time
// means no age rule.
func (c *Config) Cutoff(now time.Time) (time.Time, error) {
	if c.Filters.OlderThan == "" {
		return time.Time{}, nil
	}
	return cutoff.Parse(c.Filters.OlderThan, now, time.Local)
}

// DepthBounds returns the configured depth bounds with filter.Unbounded for
// unset values.
func (c *Config) DepthBounds() (min, max int) {
	min, max = filter.Unbounded, filter.Unbounded
	if c.Filters.MinDepth != nil {
		min = *c.Filters.MinDepth
	}
	if c.Filters.MaxDepth != nil {
		max = *c.Filters.MaxDepth
	}
	return min, max
}
