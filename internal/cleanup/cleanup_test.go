package cleanup_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"archivist/internal/cleanup"
	"archivist/internal/filter"
	"archivist/internal/report"
	"archivist/internal/testsupport"
)

func outcomesByPath(outcomes []report.CleanupOutcome) map[string]report.CleanupOutcome {
	byPath := make(map[string]report.CleanupOutcome, len(outcomes))
	for _, o := range outcomes {
		byPath[o.Path] = o
	}
	return byPath
}

func TestRunRemovesNestedEmptyDirectories(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.MkdirAll(t, fsys, "/src/a/b/c")
	testsupport.MkdirAll(t, fsys, "/src/d")
	testsupport.WriteFile(t, fsys, "/src/d/keep.txt", 4, time.Time{})

	outcomes := cleanup.New(fsys, filter.IgnoreSet{}, nil).Run("/src")
	byPath := outcomesByPath(outcomes)

	for _, dir := range []string{"/src/a/b/c", "/src/a/b", "/src/a"} {
		if !byPath[dir].Removed {
			t.Fatalf("expected %s removed, got %+v", dir, byPath[dir])
		}
		if testsupport.Exists(t, fsys, dir) {
			t.Fatalf("%s still exists", dir)
		}
	}
	if byPath["/src/d"].Removed {
		t.Fatal("directory with a file was removed")
	}
	root := byPath["/src"]
	if root.Removed || !testsupport.Exists(t, fsys, "/src") {
		t.Fatal("root must never be removed")
	}
	// Children are reported before their parents.
	if outcomes[len(outcomes)-1].Path != "/src" {
		t.Fatalf("expected root last, got %q", outcomes[len(outcomes)-1].Path)
	}
}

func TestRunKeepsEmptyRoot(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.MkdirAll(t, fsys, "/src")

	outcomes := cleanup.New(fsys, filter.IgnoreSet{}, nil).Run("/src")
	if len(outcomes) != 1 || outcomes[0].Removed {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
	if !testsupport.Exists(t, fsys, "/src") {
		t.Fatal("empty root removed")
	}
}

func TestRunSkipsIgnoredDirectories(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.MkdirAll(t, fsys, "/src/Keep/empty")
	testsupport.MkdirAll(t, fsys, "/src/parent/Keep2")

	ignore := filter.NewIgnoreSet("/src/Keep", "/src/parent/Keep2")
	byPath := outcomesByPath(cleanup.New(fsys, ignore, nil).Run("/src"))

	if _, visited := byPath["/src/Keep/empty"]; visited {
		t.Fatal("ignored directory was traversed")
	}
	if !testsupport.Exists(t, fsys, "/src/Keep/empty") || !testsupport.Exists(t, fsys, "/src/parent/Keep2") {
		t.Fatal("ignored directory removed")
	}
	if byPath["/src/parent"].Removed {
		t.Fatal("parent of an ignored directory must count as non-empty")
	}
}

func TestRunReportsRemovalErrors(t *testing.T) {
	fsys := &testsupport.FaultFS{
		Fs: testsupport.MemFS(),
		RemoveErr: func(name string) error {
			if name == "/src/locked" {
				return errors.New("permission denied")
			}
			return nil
		},
	}
	testsupport.MkdirAll(t, fsys, "/src/locked")

	byPath := outcomesByPath(cleanup.New(fsys, filter.IgnoreSet{}, nil).Run("/src"))
	locked := byPath["/src/locked"]
	if locked.Removed || !locked.Failed || locked.Reason == "" {
		t.Fatalf("expected recorded failure, got %+v", locked)
	}
	if root := byPath["/src"]; root.Failed {
		t.Fatalf("keeping the source root is not a failure: %+v", root)
	}
}

func TestRunTreatsSymlinksAsContent(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	linkDir := filepath.Join(root, "links")
	if err := os.MkdirAll(linkDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(linkDir, "elsewhere")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	fsys := afero.NewOsFs()
	byPath := outcomesByPath(cleanup.New(fsys, filter.IgnoreSet{}, nil).Run(root))

	if byPath[linkDir].Removed {
		t.Fatal("directory holding a symlink was removed")
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("symlink target touched: %v", err)
	}
}
