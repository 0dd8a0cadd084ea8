package mover_test

import (
	"errors"
	"reflect"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"

	"archivist/internal/mover"
	"archivist/internal/planner"
	"archivist/internal/report"
	"archivist/internal/scan"
	"archivist/internal/testsupport"
)

var modified = time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

func operation(fsys afero.Fs, t *testing.T, src, dest string) planner.Operation {
	t.Helper()
	info, err := fsys.Stat(src)
	if err != nil {
		t.Fatalf("stat %s: %v", src, err)
	}
	return planner.Operation{
		Entry:       scan.Entry{Path: src, RelPath: "docs/a.txt", Depth: 2, Size: info.Size(), Mode: info.Mode()},
		Destination: dest,
		Label:       "2024-02",
	}
}

func TestExecuteRenames(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.WriteFile(t, fsys, "/src/docs/a.txt", 128, modified)
	op := operation(fsys, t, "/src/docs/a.txt", "/dest/2024-02/docs/a.txt")

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Moved || outcome.Method != report.MethodRename {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.Bytes != 128 || outcome.Label != "2024-02" {
		t.Fatalf("outcome lost entry details: %+v", outcome)
	}
	if testsupport.Exists(t, fsys, "/src/docs/a.txt") {
		t.Fatal("source still present after move")
	}
	if !testsupport.Exists(t, fsys, "/dest/2024-02/docs/a.txt") {
		t.Fatal("destination missing after move")
	}
}

func TestExecuteDryRunTouchesNothing(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.WriteFile(t, fsys, "/src/docs/a.txt", 16, modified)
	before := testsupport.Snapshot(t, fsys, "/")
	op := operation(fsys, t, "/src/docs/a.txt", "/dest/2024-02/docs/a.txt")

	outcome := mover.New(fsys, true, nil).Execute(op)
	if outcome.Result != report.Moved || outcome.Method != report.MethodPreview {
		t.Fatalf("unexpected dry-run outcome: %+v", outcome)
	}
	if after := testsupport.Snapshot(t, fsys, "/"); !reflect.DeepEqual(before, after) {
		t.Fatalf("dry run changed the filesystem:\nbefore %v\nafter  %v", before, after)
	}
}

func TestExecuteSkipReason(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.WriteFile(t, fsys, "/src/docs/a.txt", 16, modified)
	op := operation(fsys, t, "/src/docs/a.txt", "/dest/docs/a.txt")
	op.SkipReason = report.ReasonExists

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Skipped || outcome.Reason != report.ReasonExists {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if !testsupport.Exists(t, fsys, "/src/docs/a.txt") {
		t.Fatal("skipped file was moved")
	}
}

func TestExecuteRefusesTargetThatAppeared(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.WriteFile(t, fsys, "/src/docs/a.txt", 16, modified)
	op := operation(fsys, t, "/src/docs/a.txt", "/dest/docs/a.txt")
	testsupport.WriteFile(t, fsys, "/dest/docs/a.txt", 4, modified)

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Failed {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if !testsupport.Exists(t, fsys, "/src/docs/a.txt") {
		t.Fatal("source removed despite failure")
	}
}

func TestExecuteOverwriteReplacesFile(t *testing.T) {
	fsys := testsupport.MemFS()
	testsupport.WriteFile(t, fsys, "/src/docs/a.txt", 64, modified)
	testsupport.WriteFile(t, fsys, "/dest/docs/a.txt", 4, modified)
	op := operation(fsys, t, "/src/docs/a.txt", "/dest/docs/a.txt")
	op.Overwrite = true

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Moved {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	info, err := fsys.Stat("/dest/docs/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 64 {
		t.Fatalf("destination not replaced, size %d", info.Size())
	}
}

func crossDeviceFS(src string) *testsupport.FaultFS {
	return &testsupport.FaultFS{
		Fs: testsupport.MemFS(),
		RenameErr: func(oldname, newname string) error {
			if oldname == src {
				return testsupport.LinkError(oldname, newname, syscall.EXDEV)
			}
			return nil
		},
	}
}

func TestExecuteFallsBackToCopyAcrossDevices(t *testing.T) {
	const src = "/src/docs/a.txt"
	fsys := crossDeviceFS(src)
	testsupport.WriteFile(t, fsys, src, 70000, modified)
	op := operation(fsys, t, src, "/dest/docs/a.txt")

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Moved || outcome.Method != report.MethodCopy {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if testsupport.Exists(t, fsys, src) {
		t.Fatal("source left behind after copy fallback")
	}
	info, err := fsys.Stat("/dest/docs/a.txt")
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if info.Size() != 70000 {
		t.Fatalf("destination size %d, want 70000", info.Size())
	}
	if !info.ModTime().Equal(modified) {
		t.Fatalf("modification time not preserved: %v", info.ModTime())
	}
	entries, err := afero.ReadDir(fsys, "/dest/docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in destination, got %d", len(entries))
	}
}

func TestExecuteRollsBackCopyWhenSourceRemovalFails(t *testing.T) {
	const src = "/src/docs/a.txt"
	fsys := crossDeviceFS(src)
	fsys.RemoveErr = func(name string) error {
		if name == src {
			return errors.New("read-only source")
		}
		return nil
	}
	testsupport.WriteFile(t, fsys, src, 512, modified)
	op := operation(fsys, t, src, "/dest/docs/a.txt")

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Failed {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if !strings.Contains(outcome.Reason, "copy rolled back") {
		t.Fatalf("expected rollback in reason, got %q", outcome.Reason)
	}
	if !testsupport.Exists(t, fsys, src) {
		t.Fatal("source must survive a failed removal")
	}
	if testsupport.Exists(t, fsys, "/dest/docs/a.txt") {
		t.Fatal("copy must be removed so only one file remains")
	}
}

func TestExecuteReportsRenameFailure(t *testing.T) {
	const src = "/src/docs/a.txt"
	fsys := &testsupport.FaultFS{
		Fs: testsupport.MemFS(),
		RenameErr: func(oldname, newname string) error {
			return testsupport.LinkError(oldname, newname, syscall.EACCES)
		},
	}
	testsupport.WriteFile(t, fsys, src, 8, modified)
	op := operation(fsys, t, src, "/dest/docs/a.txt")

	outcome := mover.New(fsys, false, nil).Execute(op)
	if outcome.Result != report.Failed || outcome.Method != report.MethodNone {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if !testsupport.Exists(t, fsys, src) {
		t.Fatal("source removed after failed rename")
	}
}

func TestExecuteCopiesWithoutVerification(t *testing.T) {
	const src = "/src/docs/a.txt"
	fsys := crossDeviceFS(src)
	testsupport.WriteFile(t, fsys, src, 2048, modified)
	op := operation(fsys, t, src, "/dest/docs/a.txt")

	outcome := mover.New(fsys, false, nil, mover.WithVerification(false)).Execute(op)
	if outcome.Result != report.Moved || outcome.Method != report.MethodCopy {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	data, err := afero.ReadFile(fsys, "/dest/docs/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2048 {
		t.Fatalf("copied %d bytes, want 2048", len(data))
	}
}
