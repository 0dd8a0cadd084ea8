package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"archivist/internal/failure"
	"archivist/internal/report"
	"archivist/internal/runlock"
)

var march2020 = time.Date(2020, 3, 5, 8, 0, 0, 0, time.UTC)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"per-file failures", errRunFailures, exitFailures},
		{"wrapped failures", fmt.Errorf("run: %w", errRunFailures), exitFailures},
		{"configuration", failure.Wrap(failure.ErrConfiguration, "config", "validate", "", errors.New("bad")), exitFatal},
		{"interrupted", failure.Wrap(failure.ErrInterrupted, "archive", "move files", "", nil), exitFatal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestRunCommandArchivesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "docs", "report.txt"), 2048, march2020)
	writeDatedFile(t, filepath.Join(env.source, "fresh.txt"), 10, time.Now())

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	requireExists(t, filepath.Join(env.destination, "2020-03", "docs", "report.txt"))
	requireMissing(t, filepath.Join(env.source, "docs"))
	requireExists(t, filepath.Join(env.source, "fresh.txt"))
	requireContains(t, out, "Moved 1 file (2.0 KiB), skipped 1, failed 0")
	requireContains(t, out, "Removed empty folders:")
	if strings.Contains(out, "fresh.txt") {
		t.Fatalf("skipped files should be hidden without --show-skipped:\n%s", out)
	}
	requireExists(t, runlock.PathFor(env.stateDir, env.source))
}

func TestRunCommandFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "a", "b", "deep.txt"), 1, march2020)
	writeDatedFile(t, filepath.Join(env.source, "top.txt"), 1, march2020)
	writeDatedFile(t, filepath.Join(env.source, "keep", "x.txt"), 1, march2020)
	other := filepath.Join(t.TempDir(), "elsewhere")

	out, _, err := runCLI(t, []string{
		"run",
		"--destination", other,
		"--group-by", "year",
		"--max-depth", "1",
		"--ignored-paths", "keep",
		"--keep-empty-folders",
		"--show-skipped",
		"--no-lock",
	}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	requireExists(t, filepath.Join(other, "2020", "top.txt"))
	requireExists(t, filepath.Join(env.source, "a", "b", "deep.txt"))
	requireExists(t, filepath.Join(env.source, "keep", "x.txt"))
	requireMissing(t, env.destination)
	requireMissing(t, runlock.PathFor(env.stateDir, env.source))
	requireContains(t, out, "Moved 1 file")
}

func TestRunCommandResolvesConfigIgnoresAgainstSourceFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, fmt.Sprintf(`[paths]
source = %q
destination = %q

[filters]
group_by = "month"
file_date_types = ["modified"]
ignored_paths = ["Keep"]

[moves]
timezone = "UTC"

[logging]
level = "warn"
`, env.source, env.destination))

	other := filepath.Join(t.TempDir(), "other-inbox")
	writeDatedFile(t, filepath.Join(other, "Keep", "x.txt"), 1, march2020)
	writeDatedFile(t, filepath.Join(other, "loose.txt"), 1, march2020)

	out, _, err := runCLI(t, []string{"run", "--source", other, "--no-lock"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	requireExists(t, filepath.Join(other, "Keep", "x.txt"))
	requireMissing(t, filepath.Join(env.destination, "2020-03", "Keep"))
	requireExists(t, filepath.Join(env.destination, "2020-03", "loose.txt"))
	requireContains(t, out, "Moved 1 file")
}

func TestRunCommandDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.source, "old.txt")
	writeDatedFile(t, src, 5, march2020)

	out, _, err := runCLI(t, []string{"run", "--dry-run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if !rep.DryRun || len(rep.Moves) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	move := rep.Moves[0]
	if move.Result != report.Moved || move.Method != report.MethodPreview {
		t.Fatalf("unexpected outcome: %+v", move)
	}
	if want := filepath.Join(env.destination, "2020-03", "old.txt"); move.Destination != want {
		t.Fatalf("destination = %s, want %s", move.Destination, want)
	}
	requireExists(t, src)
	requireMissing(t, env.destination)
}

func TestRunCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "dup.txt"), 5, march2020)
	writeDatedFile(t, filepath.Join(env.source, "other.txt"), 5, march2020.AddDate(0, 0, 1))
	writeDatedFile(t, filepath.Join(env.destination, "2020-03", "dup.txt"), 7, march2020)

	out, _, err := runCLI(t, []string{"run", "--no-lock"}, env.configPath)
	if !errors.Is(err, errRunFailures) || exitCode(err) != exitFailures {
		t.Fatalf("expected per-file failure exit, got %v", err)
	}
	requireContains(t, out, "failed 1")
	requireExists(t, filepath.Join(env.source, "dup.txt"))
	requireExists(t, filepath.Join(env.destination, "2020-03", "other.txt"))

	out, _, err = runCLI(t, []string{"run", "--no-lock", "--collision", "rename"}, env.configPath)
	if err != nil {
		t.Fatalf("rename run: %v", err)
	}
	requireExists(t, filepath.Join(env.destination, "2020-03", "dup - dup1.txt"))
	requireContains(t, out, "Moved 1 file")
}

func TestRunCommandRejectsInvalidConfiguration(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "a.txt"), 1, march2020)

	cases := map[string][]string{
		"same roots":     {"run", "--destination", env.source},
		"bad grouping":   {"run", "--group-by", "fortnight"},
		"previous only":  {"run", "--group-by", "none"},
		"bad older-than": {"run", "--older-than", "soon"},
		"bad date types": {"run", "--file-date-types", "birthday"},
		"depth inverted": {"run", "--min-depth", "3", "--max-depth", "1"},
		"bad log level":  {"run", "--log-level", "chatty"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := runCLI(t, args, env.configPath)
			if !errors.Is(err, failure.ErrConfiguration) || exitCode(err) != exitFatal {
				t.Fatalf("expected configuration error, got %v", err)
			}
			requireExists(t, filepath.Join(env.source, "a.txt"))
		})
	}
}

func TestRunCommandMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.source); err != nil {
		t.Fatalf("remove source: %v", err)
	}
	_, _, err := runCLI(t, []string{"run", "--no-lock"}, env.configPath)
	if !errors.Is(err, failure.ErrEnvironment) || exitCode(err) != exitFatal {
		t.Fatalf("expected environment error, got %v", err)
	}
}

func TestRunCommandRespectsHeldLock(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "a.txt"), 1, march2020)

	lock, err := runlock.Acquire(env.stateDir, env.source)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, runlock.ErrHeld) || !errors.Is(err, failure.ErrEnvironment) {
		t.Fatalf("expected held lock error, got %v", err)
	}
	requireExists(t, filepath.Join(env.source, "a.txt"))
}

func TestRunCommandWritesMetrics(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "a.txt"), 100, march2020)
	metricsPath := filepath.Join(t.TempDir(), "archivist.prom")

	if _, _, err := runCLI(t, []string{"run", "--no-lock", "--metrics-file", metricsPath}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(data), `archivist_files_total{result="moved"} 1`)
	requireContains(t, string(data), "archivist_bytes_moved_total 100")
}

func TestRunCommandWritesLogFile(t *testing.T) {
	env := setupCLITestEnv(t)
	writeDatedFile(t, filepath.Join(env.source, "a.txt"), 1, march2020)
	logPath := filepath.Join(t.TempDir(), "logs", "archivist.log")
	writeTestConfig(t, env.configPath, fmt.Sprintf(`[paths]
source = %q
destination = %q

[filters]
file_date_types = ["m"]

[logging]
level = "info"
file = %q
`, env.source, env.destination, logPath))

	_, stderr, err := runCLI(t, []string{"run", "--no-lock", "--log-format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, stderr, `"msg":"archive run finished"`)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	requireContains(t, string(data), `"msg":"archive run started"`)
	requireExists(t, filepath.Join(env.destination, "a.txt"))
}
