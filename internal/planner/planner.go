package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"archivist/internal/failure"
	"archivist/internal/period"
	"archivist/internal/scan"
)

// Policy selects what happens when a destination is already taken.
type Policy string

const (
	PolicyFail      Policy = "fail"
	PolicySkip      Policy = "skip"
	PolicyRename    Policy = "rename"
	PolicyOverwrite Policy = "overwrite"
)

// Policies lists the accepted collision policies.
func Policies() []Policy {
	return []Policy{PolicyFail, PolicySkip, PolicyRename, PolicyOverwrite}
}

// ParsePolicy parses a policy name; empty selects PolicyFail.
func ParsePolicy(value string) (Policy, error) {
	normalized := Policy(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PolicyFail, nil
	}
	for _, p := range Policies() {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown collision policy %q (expected fail, skip, rename or overwrite)", value)
}

// ErrNotLocal is returned for relative paths that would escape the
// destination root.
var ErrNotLocal = errors.New("path escapes destination root")

// Operation is a planned move of one file.
type Operation struct {
	Entry       scan.Entry
	Destination string
	Label       string
	// Overwrite is set when the destination file exists and may be replaced.
	Overwrite bool
	// SkipReason is non-empty when the collision policy chose to skip.
	SkipReason string
}

// Destination joins destRoot, the optional label, and relPath.
func Destination(destRoot, relPath, label string) (string, error) {
	if relPath == "" || !filepath.IsLocal(relPath) {
		return "", fmt.Errorf("%w: %q", ErrNotLocal, relPath)
	}
	if label == "" {
		return filepath.Join(destRoot, relPath), nil
	}
	if !filepath.IsLocal(label) || strings.ContainsRune(label, filepath.Separator) {
		return "", fmt.Errorf("%w: label %q", ErrNotLocal, label)
	}
	return filepath.Join(destRoot, label, relPath), nil
}

// Planner computes operations for one run. It is meant for sequential use.
type Planner struct {
	fs       afero.Fs
	root     string
	strategy period.Strategy
	policy   Policy
	claims   map[string]string
	counters map[string]int
}

// New returns a planner writing below destRoot.
func New(fsys afero.Fs, destRoot string, strategy period.Strategy, policy Policy) *Planner {
	if policy == "" {
		policy = PolicyFail
	}
	return &Planner{
		fs:       fsys,
		root:     destRoot,
		strategy: strategy,
		policy:   policy,
		claims:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Plan computes the operation for entry. The effective date must already be
// in the location used for classification. Collisions under PolicyFail are
// returned as errors wrapping failure.ErrCollision.
func (p *Planner) Plan(entry scan.Entry, effective time.Time) (Operation, error) {
	op := Operation{Entry: entry}
	if p.strategy.Valid() {
		op.Label = period.Classify(effective, p.strategy).Label()
	}
	dest, err := Destination(p.root, entry.RelPath, op.Label)
	if err != nil {
		return op, failure.Wrap(failure.ErrIO, "plan", "destination", entry.RelPath, err)
	}
	op.Destination = dest

	owner, claimed := p.claims[dest]
	if claimed && owner == entry.Path {
		return op, nil
	}
	info, statErr := p.fs.Stat(dest)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return op, failure.Wrap(failure.ErrIO, "plan", "stat destination", dest, statErr)
	}
	if !claimed && !exists {
		p.claims[dest] = entry.Path
		return op, nil
	}

	switch p.policy {
	case PolicySkip:
		op.SkipReason = "exists"
		return op, nil
	case PolicyRename:
		candidate, err := p.rename(dest)
		if err != nil {
			return op, err
		}
		op.Destination = candidate
		p.claims[candidate] = entry.Path
		return op, nil
	case PolicyOverwrite:
		if claimed {
			return op, failure.Wrap(failure.ErrCollision, "plan", "overwrite", fmt.Sprintf("%s already claimed by %s", dest, owner), nil)
		}
		if info.IsDir() {
			return op, failure.Wrap(failure.ErrCollision, "plan", "overwrite", dest+" is a directory", nil)
		}
		op.Overwrite = true
		p.claims[dest] = entry.Path
		return op, nil
	default:
		if claimed {
			return op, failure.Wrap(failure.ErrCollision, "plan", "claim", fmt.Sprintf("%s already claimed by %s", dest, owner), nil)
		}
		return op, failure.Wrap(failure.ErrCollision, "plan", "claim", dest+" already exists", nil)
	}
}

// rename picks the first " - dupN" variant of dest that is neither claimed
// nor present on disk.
func (p *Planner) rename(dest string) (string, error) {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := p.counters[dest]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		counter++
		if _, taken := p.claims[candidate]; taken {
			continue
		}
		_, err := p.fs.Stat(candidate)
		if err == nil {
			continue
		}
		if !os.IsNotExist(err) {
			return "", failure.Wrap(failure.ErrIO, "plan", "stat candidate", candidate, err)
		}
		p.counters[dest] = counter
		return candidate, nil
	}
}
