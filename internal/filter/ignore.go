package filter

import (
	"path/filepath"
	"strings"
)

// IgnoreSet holds absolute paths whose whole subtree is excluded.
type IgnoreSet struct {
	paths []string
}

// NewIgnoreSet cleans the given paths and drops blanks and duplicates.
func NewIgnoreSet(paths ...string) IgnoreSet {
	seen := make(map[string]struct{}, len(paths))
	set := IgnoreSet{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		cleaned := filepath.Clean(p)
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		set.paths = append(set.paths, cleaned)
	}
	return set
}

// With returns a copy of the set that also ignores path.
func (s IgnoreSet) With(path string) IgnoreSet {
	return NewIgnoreSet(append(append([]string(nil), s.paths...), path)...)
}

// Paths returns the members of the set.
func (s IgnoreSet) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Len reports the number of members.
func (s IgnoreSet) Len() int {
	return len(s.paths)
}

// Contains reports whether path equals, or lies below, any member. Matching
// is by whole path components: ignoring /src/Keep does not ignore /src/Keeper.
func (s IgnoreSet) Contains(path string) bool {
	if len(s.paths) == 0 {
		return false
	}
	cleaned := filepath.Clean(path)
	for _, member := range s.paths {
		if Within(cleaned, member) {
			return true
		}
	}
	return false
}

// Within reports whether path is root or one of its descendants. Both paths
// must already be cleaned.
func Within(path, root string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
