package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "captures.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "captures.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	_, err = store.RecordCapture(CaptureEntry{Kind: "image", Width: 1920, Height: 1080, Output: "a.png", Paths: []string{"/out/a.png"}, Tick: 12})
	if err != nil {
		t.Fatalf("RecordCapture() failed: %v", err)
	}
	_, err = store.RecordCapture(CaptureEntry{Kind: "sequence", Width: 64, Height: 64, Output: "b.png", Paths: []string{"/out/b_0000.png", "/out/b_0001.png"}, Tick: 40})
	if err != nil {
		t.Fatalf("RecordCapture() failed: %v", err)
	}
	_, err = store.RecordCapture(CaptureEntry{Kind: "image", Width: 64, Height: 64, Output: "c.png", Error: "frame buffer unavailable"})
	if err != nil {
		t.Fatalf("RecordCapture() failed: %v", err)
	}

	entries, err := store.RecentCaptures(10)
	if err != nil {
		t.Fatalf("RecentCaptures() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	// Newest first
	if entries[0].Output != "c.png" || entries[0].OK() {
		t.Errorf("Expected failed c.png first, got %+v", entries[0])
	}
	if len(entries[1].Paths) != 2 || entries[1].Tick != 40 {
		t.Errorf("Expected sequence entry with 2 paths, got %+v", entries[1])
	}
	if len(entries[0].Paths) != 0 {
		t.Errorf("Expected no paths for failed capture, got %v", entries[0].Paths)
	}

	limited, err := store.RecentCaptures(1)
	if err != nil {
		t.Fatalf("RecentCaptures() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 entry with limit, got %d", len(limited))
	}
}

func TestStoreCountAndClear(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "captures.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 0; i < 4; i++ {
		if _, err := store.RecordCapture(CaptureEntry{Kind: "image", Output: "x.png"}); err != nil {
			t.Fatalf("RecordCapture() failed: %v", err)
		}
	}

	n, err := store.CaptureCount()
	if err != nil || n != 4 {
		t.Fatalf("CaptureCount() = %d, %v; expected 4", n, err)
	}

	if err := store.ClearCaptures(); err != nil {
		t.Fatalf("ClearCaptures() failed: %v", err)
	}
	n, _ = store.CaptureCount()
	if n != 0 {
		t.Errorf("Expected 0 captures after clear, got %d", n)
	}
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "captures.db")

	store1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store1.RecordCapture(CaptureEntry{Kind: "image", Output: "keep.png"}); err != nil {
		t.Fatalf("RecordCapture() failed: %v", err)
	}
	store1.Close()

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store2.Close()

	entries, err := store2.RecentCaptures(10)
	if err != nil {
		t.Fatalf("RecentCaptures() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Output != "keep.png" {
		t.Errorf("Expected persisted entry, got %+v", entries)
	}
}
