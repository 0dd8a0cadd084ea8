package testsupport

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// MemFS returns an empty in-memory filesystem.
func MemFS() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern and pins its modification time. A size <= 0 writes
// a single byte; a zero modified leaves the current time in place.
func WriteFile(t testing.TB, fsys afero.Fs, path string, size int64, modified time.Time) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			f.Close()
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	if !modified.IsZero() {
		if err := fsys.Chtimes(path, modified, modified); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

// MkdirAll creates a directory tree or fails the test.
func MkdirAll(t testing.TB, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// Exists reports whether path exists on fsys.
func Exists(t testing.TB, fsys afero.Fs, path string) bool {
	t.Helper()
	_, err := fsys.Stat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatalf("stat %s: %v", path, err)
	return false
}

// Snapshot lists every path below root, directories included, so tests can
// assert that a run left the tree untouched.
func Snapshot(t testing.TB, fsys afero.Fs, root string) []string {
	t.Helper()
	var paths []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walk %s: %v", root, err)
	}
	return paths
}
