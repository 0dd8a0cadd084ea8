package timestamps_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"archivist/internal/timestamps"
)

func TestParseKindAcceptsFullAndShortForms(t *testing.T) {
	cases := map[string]timestamps.Kind{
		"created":    timestamps.Created,
		"modified":   timestamps.Modified,
		"accessed":   timestamps.Accessed,
		"c":          timestamps.Created,
		"M":          timestamps.Modified,
		"ACCessed":   timestamps.Accessed,
		" created ":  timestamps.Created,
		"\taccessed": timestamps.Accessed,
	}
	for input, want := range cases {
		got, err := timestamps.ParseKind(input)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseKindRejectsUnknownValues(t *testing.T) {
	for _, input := range []string{"", "invalid", "cm", "x", "create", "modify"} {
		_, err := timestamps.ParseKind(input)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		for _, fragment := range []string{"created (c)", "modified (m)", "accessed (a)"} {
			if !strings.Contains(err.Error(), fragment) {
				t.Fatalf("expected %q in error %q", fragment, err)
			}
		}
	}
}

func TestParseKindsSplitsAndDeduplicates(t *testing.T) {
	kinds, err := timestamps.ParseKinds([]string{"m,c", "modified", "a"})
	if err != nil {
		t.Fatalf("ParseKinds returned error: %v", err)
	}
	want := []timestamps.Kind{timestamps.Modified, timestamps.Created, timestamps.Accessed}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}

	if _, err := timestamps.ParseKinds(nil); err == nil {
		t.Fatal("expected error for empty kinds")
	}
}

func TestResolvePicksMostRecentRequestedKind(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	accessed := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	times := timestamps.Times{
		timestamps.Created:  created,
		timestamps.Modified: modified,
		timestamps.Accessed: accessed,
	}

	got, ok := timestamps.Resolve(times, timestamps.DefaultKinds())
	if !ok || !got.Equal(modified) {
		t.Fatalf("expected modified time, got %v ok=%v", got, ok)
	}

	got, ok = timestamps.Resolve(times, []timestamps.Kind{timestamps.Created})
	if !ok || !got.Equal(created) {
		t.Fatalf("expected created time, got %v ok=%v", got, ok)
	}

	got, ok = timestamps.Resolve(times, []timestamps.Kind{timestamps.Created, timestamps.Accessed})
	if !ok || !got.Equal(accessed) {
		t.Fatalf("expected accessed time, got %v ok=%v", got, ok)
	}
}

func TestResolveSkipsAbsentKinds(t *testing.T) {
	modified := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	times := timestamps.Times{timestamps.Modified: modified}

	got, ok := timestamps.Resolve(times, timestamps.DefaultKinds())
	if !ok || !got.Equal(modified) {
		t.Fatalf("expected modified fallback, got %v ok=%v", got, ok)
	}

	if _, ok := timestamps.Resolve(times, []timestamps.Kind{timestamps.Created, timestamps.Accessed}); ok {
		t.Fatal("expected unresolved when no requested kind is present")
	}
	if _, ok := timestamps.Resolve(timestamps.Times{}, timestamps.DefaultKinds()); ok {
		t.Fatal("expected unresolved for empty times")
	}
}

func TestReadReportsModificationTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	pinned := time.Date(2023, 3, 14, 15, 9, 26, 0, time.UTC)
	if err := os.Chtimes(path, pinned, pinned); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	times := timestamps.Read(path, info)
	if got := times[timestamps.Modified]; !got.Equal(pinned) {
		t.Fatalf("modified = %v, want %v", got, pinned)
	}
	if created, ok := times[timestamps.Created]; ok && created.IsZero() {
		t.Fatal("created time must never be a zero value")
	}
}

func TestFromFileInfoNil(t *testing.T) {
	if times := timestamps.FromFileInfo(nil); len(times) != 0 {
		t.Fatalf("expected no timestamps, got %v", times)
	}
}
