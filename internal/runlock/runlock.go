// Package runlock keeps two processes from archiving the same source root at
// once. Each source gets an advisory flock file under the state directory,
// named by a hash of the cleaned absolute source path.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process holds the lock.
var ErrHeld = errors.New("another archive run is using this source")

// Lock is an acquired run lock.
type Lock struct {
	path  string
	flock *flock.Flock
}

// PathFor returns the lock file used for source.
func PathFor(stateDir, source string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(source)))
	return filepath.Join(stateDir, "locks", hex.EncodeToString(sum[:12])+".lock")
}

// Acquire takes the lock for source without blocking.
func Acquire(stateDir, source string) (*Lock, error) {
	path := PathFor(stateDir, source)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrHeld, path)
	}
	return &Lock{path: path, flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file is left in place.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
