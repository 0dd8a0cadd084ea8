package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"archivist/internal/failure"
	"archivist/internal/fileutil"
	"archivist/internal/logging"
	"archivist/internal/planner"
	"archivist/internal/report"
	"archivist/internal/timestamps"
)

// Mover applies operations to a filesystem.
type Mover struct {
	fs     afero.Fs
	dryRun bool
	verify bool
	logger *slog.Logger
}

// Option configures a Mover.
type Option func(*Mover)

// WithVerification toggles size and SHA-256 checks on cross-device copies.
// Verification is on by default.
func WithVerification(enabled bool) Option {
	return func(m *Mover) {
		m.verify = enabled
	}
}

// New returns a mover. A nil logger discards output.
func New(fsys afero.Fs, dryRun bool, logger *slog.Logger, opts ...Option) *Mover {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Mover{fs: fsys, dryRun: dryRun, verify: true, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute performs op and reports the outcome. Errors never escape: each file
// is independent and failures are recorded on the outcome.
func (m *Mover) Execute(op planner.Operation) report.MoveOutcome {
	outcome := report.MoveOutcome{
		Source:      op.Entry.Path,
		Destination: op.Destination,
		Label:       op.Label,
		Bytes:       op.Entry.Size,
	}
	if op.SkipReason != "" {
		outcome.Result = report.Skipped
		outcome.Reason = op.SkipReason
		return outcome
	}
	if m.dryRun {
		outcome.Result = report.Moved
		outcome.Method = report.MethodPreview
		return outcome
	}

	method, err := m.move(op)
	if err != nil {
		outcome.Result = report.Failed
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.Result = report.Moved
	outcome.Method = method
	return outcome
}

func (m *Mover) move(op planner.Operation) (report.Method, error) {
	source, target := op.Entry.Path, op.Destination
	if err := m.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return report.MethodNone, failure.Wrap(failure.ErrIO, "move", "create target directory", filepath.Dir(target), err)
	}
	if !op.Overwrite {
		if _, err := m.fs.Stat(target); err == nil {
			return report.MethodNone, failure.Wrap(failure.ErrCollision, "move", "check target", target+" appeared after planning", nil)
		}
	}

	err := m.fs.Rename(source, target)
	if err == nil {
		return report.MethodRename, nil
	}
	if !crossDevice(err) {
		return report.MethodNone, failure.Wrap(failure.ErrIO, "move", "rename", "", err)
	}

	m.logger.Debug("rename crossed devices; copying",
		logging.String("source", source),
		logging.String("destination", target),
	)
	if err := m.copyAcross(op); err != nil {
		return report.MethodNone, err
	}
	return report.MethodCopy, nil
}

func (m *Mover) copyAcross(op planner.Operation) error {
	source, target := op.Entry.Path, op.Destination
	info, err := m.fs.Stat(source)
	if err != nil {
		return failure.Wrap(failure.ErrIO, "move", "stat source", source, err)
	}

	temp := filepath.Join(filepath.Dir(target), fmt.Sprintf(".%s.%s.partial", filepath.Base(target), uuid.NewString()))
	if err := m.copyFile(source, temp, info.Mode()); err != nil {
		return failure.Wrap(failure.ErrIO, "move", "copy across devices", "", err)
	}
	if err := fileutil.PreserveMetadata(m.fs, temp, info, op.Entry.Times[timestamps.Accessed]); err != nil {
		_ = m.fs.Remove(temp)
		return failure.Wrap(failure.ErrIO, "move", "preserve metadata", "", err)
	}
	if err := m.fs.Rename(temp, target); err != nil {
		_ = m.fs.Remove(temp)
		return failure.Wrap(failure.ErrIO, "move", "place copy", target, err)
	}
	if err := m.fs.Remove(source); err != nil {
		if rollbackErr := m.fs.Remove(target); rollbackErr != nil {
			logging.WarnWithContext(m.logger, "copy left behind after failed source removal", "rollback_failed",
				logging.String("destination", target),
				logging.Error(rollbackErr),
				logging.String(logging.FieldErrorHint, "remove the duplicate manually"),
				logging.String(logging.FieldImpact, "file exists at both source and destination"),
			)
			return failure.Wrap(failure.ErrIO, "move", "remove source after copy", "rollback of copy also failed", errors.Join(err, rollbackErr))
		}
		return failure.Wrap(failure.ErrIO, "move", "remove source after copy", "copy rolled back", err)
	}
	return nil
}

func (m *Mover) copyFile(source, temp string, mode fs.FileMode) error {
	if m.verify {
		_, err := fileutil.CopyFileVerified(m.fs, source, temp)
		return err
	}
	if err := fileutil.CopyFileMode(m.fs, source, temp, mode.Perm()); err != nil {
		_ = m.fs.Remove(temp)
		return err
	}
	return nil
}

func crossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}
