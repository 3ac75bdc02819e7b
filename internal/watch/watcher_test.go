package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}
}

func TestPrimeDoesNotReportExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.json")
	touch(t, path, time.Unix(1000, 0))

	w := New(path)
	w.Prime()

	if changes := w.Poll(PollInterval); len(changes) != 0 {
		t.Errorf("expected no changes after priming, got %v", changes)
	}
}

func TestPollIsGatedByInterval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.json")
	touch(t, path, time.Unix(1000, 0))

	w := New(path)
	w.Prime()
	touch(t, path, time.Unix(2000, 0))

	if changes := w.Poll(0.2); changes != nil {
		t.Fatalf("expected no scan before the interval, got %v", changes)
	}
	if changes := w.Poll(0.2); changes != nil {
		t.Fatalf("expected no scan before the interval, got %v", changes)
	}
	changes := w.Poll(0.1)
	if len(changes) != 1 || changes[0].Kind != Changed || changes[0].Path != path {
		t.Fatalf("expected one change once 0.5s accumulated, got %v", changes)
	}

	// Accumulator resets after a scan.
	touch(t, path, time.Unix(3000, 0))
	if changes := w.Poll(0.4); changes != nil {
		t.Errorf("expected accumulator reset, got %v", changes)
	}
}

func TestChangeRemoveRecreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forcefield.json")
	touch(t, path, time.Unix(1000, 0))

	w := New(path)
	w.Prime()

	touch(t, path, time.Unix(1500, 0))
	if changes := w.Poll(PollInterval); len(changes) != 1 || changes[0].Kind != Changed {
		t.Fatalf("edit: got %v", changes)
	}
	if changes := w.Poll(PollInterval); len(changes) != 0 {
		t.Fatalf("unchanged file should be silent, got %v", changes)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if changes := w.Poll(PollInterval); len(changes) != 1 || changes[0].Kind != Removed {
		t.Fatalf("remove: got %v", changes)
	}
	if changes := w.Poll(PollInterval); len(changes) != 0 {
		t.Fatalf("removal should be reported once, got %v", changes)
	}

	// Same mtime as before removal still counts: the file was unknown.
	touch(t, path, time.Unix(1500, 0))
	if changes := w.Poll(PollInterval); len(changes) != 1 || changes[0].Kind != Changed {
		t.Fatalf("recreate: got %v", changes)
	}
}

func TestFileMissingAtStartupIsReportedWhenCreated(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	w := New(a, b)
	w.Prime()
	if changes := w.Poll(PollInterval); len(changes) != 0 {
		t.Fatalf("missing files should be silent, got %v", changes)
	}

	touch(t, b, time.Unix(10, 0))
	touch(t, a, time.Unix(20, 0))
	changes := w.Poll(PollInterval)
	if len(changes) != 2 {
		t.Fatalf("expected two changes, got %v", changes)
	}
	if changes[0].Path != a || changes[1].Path != b {
		t.Errorf("changes should follow watch order, got %v", changes)
	}
}

func TestKindString(t *testing.T) {
	if Changed.String() != "changed" || Removed.String() != "removed" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
