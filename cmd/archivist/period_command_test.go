package main

import (
	"testing"
	"time"
)

func TestPeriodCommandPrintsEveryStrategy(t *testing.T) {
	out, _, err := runCLI(t, []string{"period", "2025-12-29", "--timezone", "UTC"}, "")
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	for _, want := range []string{"Week", "Biweekly", "Quadrimester", "2026-W01", "2026-BW01", "2025-12", "2025-Q4", "2025-QD3", "2025-H2", "2025"} {
		requireContains(t, out, want)
	}
}

func TestPeriodCommandRejectsBadInput(t *testing.T) {
	if _, _, err := runCLI(t, []string{"period", "yesterday"}, ""); err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if _, _, err := runCLI(t, []string{"period", "--timezone", "Mars/Olympus"}, ""); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-15":             time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"2025-01-15T06:30:53":    time.Date(2025, 1, 15, 6, 30, 53, 0, time.UTC),
		" 2025-01-15T06:30:53Z ": time.Date(2025, 1, 15, 6, 30, 53, 0, time.UTC),
	}
	for input, want := range cases {
		got, err := parseDate(input, time.UTC)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseDate(%q) = %v, want %v", input, got, want)
		}
	}
}
