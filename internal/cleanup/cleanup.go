package cleanup

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"archivist/internal/filter"
	"archivist/internal/logging"
	"archivist/internal/report"
)

const (
	reasonRoot     = "source root"
	reasonNotEmpty = "not empty"
)

// Cleaner removes empty directories below a root.
type Cleaner struct {
	fs     afero.Fs
	ignore filter.IgnoreSet
	logger *slog.Logger
}

// New returns a cleaner. A nil logger discards output.
func New(fsys afero.Fs, ignore filter.IgnoreSet, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cleaner{fs: fsys, ignore: ignore, logger: logger}
}

type frame struct {
	path     string
	expanded bool
}

// Run visits every non-ignored directory below root, children first, and
// reports one outcome per directory, root included.
func (c *Cleaner) Run(root string) []report.CleanupOutcome {
	root = filepath.Clean(root)
	var outcomes []report.CleanupOutcome

	stack := []frame{{path: root}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !current.expanded {
			children, err := afero.ReadDir(c.fs, current.path)
			if err != nil {
				outcomes = append(outcomes, report.CleanupOutcome{
					Path:   current.path,
					Failed: true,
					Reason: fmt.Sprintf("read directory: %v", err),
				})
				continue
			}
			stack = append(stack, frame{path: current.path, expanded: true})
			for i := len(children) - 1; i >= 0; i-- {
				child := children[i]
				if !child.IsDir() {
					continue
				}
				childPath := filepath.Join(current.path, child.Name())
				if c.ignore.Contains(childPath) {
					continue
				}
				stack = append(stack, frame{path: childPath})
			}
			continue
		}

		outcomes = append(outcomes, c.settle(current.path, current.path == root))
	}
	return outcomes
}

func (c *Cleaner) settle(path string, isRoot bool) report.CleanupOutcome {
	outcome := report.CleanupOutcome{Path: path}
	if isRoot {
		outcome.Reason = reasonRoot
		return outcome
	}
	empty, err := afero.IsEmpty(c.fs, path)
	if err != nil {
		outcome.Failed = true
		outcome.Reason = fmt.Sprintf("inspect directory: %v", err)
		return outcome
	}
	if !empty {
		outcome.Reason = reasonNotEmpty
		return outcome
	}
	if err := c.fs.Remove(path); err != nil {
		outcome.Failed = true
		outcome.Reason = fmt.Sprintf("remove directory: %v", err)
		logging.WarnWithContext(c.logger, "empty directory could not be removed", "cleanup_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "empty directory left in source tree"),
		)
		return outcome
	}
	c.logger.Debug("removed empty directory", logging.String("path", path))
	outcome.Removed = true
	return outcome
}
