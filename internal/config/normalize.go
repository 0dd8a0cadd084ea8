package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"archivist/internal/period"
	"archivist/internal/planner"
	"archivist/internal/timestamps"
)

// Parsed holds the typed form of the textual settings.
type Parsed struct {
	Strategy  period.Strategy
	Kinds     []timestamps.Kind
	Collision planner.Policy
	Location  *time.Location
}

// Parsed returns the typed settings computed by the last Normalize.
func (c *Config) Parsed() Parsed {
	return c.parsed
}

// Normalize expands paths, canonicalizes enumerations and parses the typed
// settings. It is safe to call again after overrides are applied.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeFilters(); err != nil {
		return err
	}
	if err := c.normalizeMoves(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Source, err = expandPath(c.Paths.Source); err != nil {
		return fmt.Errorf("paths.source: %w", err)
	}
	if c.Paths.Destination, err = expandPath(c.Paths.Destination); err != nil {
		return fmt.Errorf("paths.destination: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFilters() error {
	strategy, err := period.ParseStrategy(c.Filters.GroupBy)
	if err != nil {
		return fmt.Errorf("filters.group_by: %w", err)
	}
	c.Filters.GroupBy = string(strategy)
	c.parsed.Strategy = strategy

	if len(c.Filters.FileDateTypes) == 0 {
		c.Filters.FileDateTypes = append([]string(nil), defaultFileDateTypes...)
	}
	kinds, err := timestamps.ParseKinds(c.Filters.FileDateTypes)
	if err != nil {
		return fmt.Errorf("filters.file_date_types: %w", err)
	}
	c.parsed.Kinds = kinds
	c.Filters.FileDateTypes = c.Filters.FileDateTypes[:0]
	for _, kind := range kinds {
		c.Filters.FileDateTypes = append(c.Filters.FileDateTypes, string(kind))
	}

	c.Filters.OlderThan = strings.TrimSpace(c.Filters.OlderThan)

	ignored := make([]string, 0, len(c.Filters.IgnoredPaths))
	for _, p := range c.Filters.IgnoredPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) && !strings.HasPrefix(p, "~") {
			// Kept relative until ResolvedIgnoredPaths so a later source
			// override still applies.
			ignored = append(ignored, filepath.Clean(p))
			continue
		}
		expanded, err := expandPath(p)
		if err != nil {
			return fmt.Errorf("filters.ignored_paths: %w", err)
		}
		ignored = append(ignored, expanded)
	}
	c.Filters.IgnoredPaths = ignored
	return nil
}

// ResolvedIgnoredPaths returns filters.ignored_paths with relative entries
// joined to the current paths.source.
func (c *Config) ResolvedIgnoredPaths() []string {
	resolved := make([]string, 0, len(c.Filters.IgnoredPaths))
	for _, p := range c.Filters.IgnoredPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Paths.Source, p)
		}
		resolved = append(resolved, p)
	}
	return resolved
}

func (c *Config) normalizeMoves() error {
	policy, err := planner.ParsePolicy(c.Moves.Collision)
	if err != nil {
		return fmt.Errorf("moves.collision: %w", err)
	}
	c.Moves.Collision = string(policy)
	c.parsed.Collision = policy

	c.Moves.Timezone = strings.TrimSpace(c.Moves.Timezone)
	loc, err := ParseTimezone(c.Moves.Timezone)
	if err != nil {
		return fmt.Errorf("moves.timezone: %w", err)
	}
	c.parsed.Location = loc
	return nil
}

// ParseTimezone resolves "utc", "local" or an IANA zone name. Empty means
// UTC.
func ParseTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "", "utc":
		return time.UTC, nil
	case "local":
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}
