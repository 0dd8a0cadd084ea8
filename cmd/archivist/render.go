package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"archivist/internal/report"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ""
	}
}

func colorLine(line string, kind statusKind, colorize bool) string {
	if !colorize {
		return line
	}
	if color := statusKindColor(kind); color != "" {
		return color + line + ansiReset
	}
	return line
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(w io.Writer) bool {
	return isTerminal(w) && os.Getenv("NO_COLOR") == ""
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderReport prints the move table, removed folders and a one-line summary.
func renderReport(w io.Writer, rep *report.Report, showSkipped, colorize bool) {
	rows := make([][]string, 0, len(rep.Moves))
	for _, o := range rep.Moves {
		if o.Result == report.Skipped && !showSkipped {
			continue
		}
		rows = append(rows, []string{
			string(o.Result),
			o.Source,
			o.Destination,
			outcomeDetail(o),
			humanize.IBytes(uint64(max(o.Bytes, 0))),
		})
	}
	if len(rows) > 0 {
		title := "Moves"
		if rep.DryRun {
			title = "Planned moves"
		}
		fmt.Fprintln(w, renderTable(title,
			[]string{"Result", "Source", "Destination", "Detail", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	var removed []string
	for _, c := range rep.Cleanup {
		if c.Removed {
			removed = append(removed, c.Path)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintln(w, "Removed empty folders:")
		for _, path := range removed {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	if failed := rep.CleanupFailures(); len(failed) > 0 {
		fmt.Fprintln(w, "Folders not removed:")
		for _, c := range failed {
			fmt.Fprintf(w, "  %s: %s\n", c.Path, c.Reason)
		}
	}

	kind, line := summaryLine(rep)
	fmt.Fprintln(w, colorLine(line, kind, colorize))
}

func outcomeDetail(o report.MoveOutcome) string {
	if o.Reason != "" {
		return o.Reason
	}
	return string(o.Method)
}

func summaryLine(rep *report.Report) (statusKind, string) {
	stats := rep.Stats()
	verb := "Moved"
	if rep.DryRun {
		verb = "Would move"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s (%s)", verb, humanize.Comma(int64(stats.Moved)), plural(stats.Moved, "file", "files"), humanize.IBytes(uint64(max(stats.BytesMoved, 0))))
	fmt.Fprintf(&b, ", skipped %s, failed %s", humanize.Comma(int64(stats.Skipped)), humanize.Comma(int64(stats.Failed)))
	if stats.FoldersRemoved > 0 {
		fmt.Fprintf(&b, ", removed %d empty %s", stats.FoldersRemoved, plural(stats.FoldersRemoved, "folder", "folders"))
	}
	if stats.FoldersFailed > 0 {
		fmt.Fprintf(&b, ", %d %s not removed", stats.FoldersFailed, plural(stats.FoldersFailed, "folder", "folders"))
	}
	if stats.CopyFallbacks > 0 {
		fmt.Fprintf(&b, ", %d copied across filesystems", stats.CopyFallbacks)
	}
	fmt.Fprintf(&b, " in %s", rep.Duration().Round(time.Millisecond))

	switch {
	case rep.Interrupted:
		b.WriteString(" (interrupted)")
		return statusError, b.String()
	case stats.Failed > 0 || stats.FoldersFailed > 0:
		return statusWarn, b.String()
	default:
		return statusOK, b.String()
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
