package preflight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Path   string
	Passed bool
	Detail string
}

// Access lists the permissions a directory must grant.
type Access uint32

const (
	Read Access = 1 << iota
	Write
	Search
)

func (a Access) String() string {
	var parts []string
	if a&Read != 0 {
		parts = append(parts, "read")
	}
	if a&Write != 0 {
		parts = append(parts, "write")
	}
	if a&Search != 0 {
		parts = append(parts, "search")
	}
	return strings.Join(parts, "/")
}

// CheckDirectoryAccess verifies that the directory exists and grants need.
func CheckDirectoryAccess(fsys afero.Fs, name, path string, need Access) Result {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if _, isOS := fsys.(*afero.OsFs); isOS {
		if err := checkAccess(path, need); err != nil {
			return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
	}
	return Result{Name: name, Path: path, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, need)}
}

// EnsureDirectory creates path when missing, then checks it like
// CheckDirectoryAccess.
func EnsureDirectory(fsys afero.Fs, name, path string, need Access) Result {
	if _, err := fsys.Stat(path); os.IsNotExist(err) {
		if err := fsys.MkdirAll(path, 0o755); err != nil {
			return Result{Name: name, Path: path, Detail: fmt.Sprintf("%s (error: create: %v)", path, err)}
		}
	}
	return CheckDirectoryAccess(fsys, name, path, need)
}

// RunAll checks the source and prepares the destination. The source must be
// listable and writable so moved files can be unlinked; dryRun relaxes that
// to read access and skips creating the destination.
func RunAll(fsys afero.Fs, source, destination string, dryRun bool) []Result {
	need := Read | Write | Search
	if dryRun {
		need = Read | Search
	}
	results := []Result{CheckDirectoryAccess(fsys, "Source directory", source, need)}
	if dryRun {
		if _, err := fsys.Stat(destination); os.IsNotExist(err) {
			results = append(results, Result{Name: "Destination directory", Path: destination, Passed: true, Detail: fmt.Sprintf("%s (would be created)", destination)})
			return results
		}
		results = append(results, CheckDirectoryAccess(fsys, "Destination directory", destination, Search))
		return results
	}
	results = append(results, EnsureDirectory(fsys, "Destination directory", destination, Write|Search))
	return results
}

// MissingPaths returns the entries of paths that do not exist.
func MissingPaths(fsys afero.Fs, paths []string) []string {
	var missing []string
	for _, p := range paths {
		if _, err := fsys.Stat(p); errors.Is(err, os.ErrNotExist) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Failed joins the details of every failed result, or returns nil.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}
