package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"archivist/internal/timestamps"
)

// Entry is one discovered regular file. Entries are never modified after
// discovery.
type Entry struct {
	Path    string
	RelPath string
	Depth   int
	Times   timestamps.Times
	Size    int64
	Mode    fs.FileMode
}

// Problem records a path that could not be inspected.
type Problem struct {
	Path string
	Err  error
}

// Result collects everything a walk found.
type Result struct {
	Entries  []Entry
	Problems []Problem
	// Symlinks counts links left alone because following is disabled.
	Symlinks int
	// Cycles counts followed directory links that led back to an ancestor.
	Cycles int
}

// Options tunes a walk.
type Options struct {
	// MaxDepth stops descent below this depth; negative means unbounded.
	MaxDepth int
	// FollowSymlinks treats links as their targets instead of skipping them.
	FollowSymlinks bool
	// Prune reports directories whose whole subtree must not be inspected.
	Prune func(path string) bool
	// ReadTimes gathers raw timestamps; defaults to timestamps.Read.
	ReadTimes func(path string, info fs.FileInfo) timestamps.Times
}

type frame struct {
	path      string
	rel       string
	depth     int
	info      fs.FileInfo
	ancestors []fs.FileInfo
}

// Walk traverses root depth-first. Root itself has depth 0 and its direct
// children depth 1.
func Walk(fsys afero.Fs, root string, opts Options) Result {
	readTimes := opts.ReadTimes
	if readTimes == nil {
		readTimes = timestamps.Read
	}

	var result Result
	rootInfo, err := fsys.Stat(root)
	if err != nil {
		result.Problems = append(result.Problems, Problem{Path: root, Err: fmt.Errorf("stat root: %w", err)})
		return result
	}

	stack := []frame{{path: root, depth: 0, info: rootInfo}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !current.info.IsDir() {
			if current.info.Mode().IsRegular() {
				result.Entries = append(result.Entries, Entry{
					Path:    current.path,
					RelPath: current.rel,
					Depth:   current.depth,
					Times:   readTimes(current.path, current.info),
					Size:    current.info.Size(),
					Mode:    current.info.Mode(),
				})
			}
			continue
		}

		if opts.MaxDepth >= 0 && current.depth >= opts.MaxDepth {
			continue
		}

		children, err := afero.ReadDir(fsys, current.path)
		if err != nil {
			result.Problems = append(result.Problems, Problem{Path: current.path, Err: fmt.Errorf("read directory: %w", err)})
			continue
		}

		ancestors := append(append([]fs.FileInfo(nil), current.ancestors...), current.info)
		next := make([]frame, 0, len(children))
		for _, child := range children {
			childPath := filepath.Join(current.path, child.Name())
			info := child
			if info.Mode()&fs.ModeSymlink != 0 {
				if !opts.FollowSymlinks {
					result.Symlinks++
					continue
				}
				target, err := fsys.Stat(childPath)
				if err != nil {
					result.Problems = append(result.Problems, Problem{Path: childPath, Err: fmt.Errorf("follow symlink: %w", err)})
					continue
				}
				if target.IsDir() && revisits(ancestors, target) {
					result.Cycles++
					continue
				}
				info = target
			}
			if info.IsDir() && opts.Prune != nil && opts.Prune(childPath) {
				continue
			}
			next = append(next, frame{
				path:      childPath,
				rel:       filepath.Join(current.rel, child.Name()),
				depth:     current.depth + 1,
				info:      info,
				ancestors: ancestors,
			})
		}
		// Push in reverse so entries pop in lexical order.
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return result
}

func revisits(ancestors []fs.FileInfo, target fs.FileInfo) bool {
	for _, ancestor := range ancestors {
		if os.SameFile(ancestor, target) {
			return true
		}
	}
	return false
}
