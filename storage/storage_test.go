package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWav(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("RIFFxxxxWAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAddAndList(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	older := s.NewItem(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	newer := s.NewItem(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	writeWav(t, older.Path)
	writeWav(t, newer.Path)

	if _, err := s.Add(older); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(newer); err != nil {
		t.Fatal(err)
	}

	items := s.List()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != newer.ID {
		t.Errorf("list not newest-first: %s first", items[0].ID)
	}
	if items[0].SizeBytes == 0 {
		t.Error("size not recorded")
	}
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	it := s.NewItem(time.Now())
	writeWav(t, it.Path)
	if _, err := s.Add(it); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	items := s2.List()
	if len(items) != 1 || items[0].ID != it.ID {
		t.Fatalf("reopened index = %+v", items)
	}
	if items[0].Path != it.Path {
		t.Errorf("path not derived on load: %q", items[0].Path)
	}
}

func TestRebuildFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "2026-01-01_10-00-00_abcd1234.wav"))
	if err := os.WriteFile(filepath.Join(dir, "recordings.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	items := s.List()
	if len(items) != 1 {
		t.Fatalf("got %d items after rebuild, want 1", len(items))
	}
	if items[0].Filename != "2026-01-01_10-00-00_abcd1234.wav" {
		t.Errorf("filename = %q", items[0].Filename)
	}
}

func TestRemove(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	it := s.NewItem(time.Now())
	writeWav(t, it.Path)
	if _, err := s.Add(it); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(it.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(it.Path); !os.IsNotExist(err) {
		t.Error("file still exists after Remove")
	}
	if len(s.List()) != 0 {
		t.Error("item still listed after Remove")
	}
	if err := s.Remove(it.ID); err == nil {
		t.Error("removing twice should fail")
	}
}

func TestPurgeRemovesOnlyOld(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	old := s.NewItem(time.Now().Add(-40 * 24 * time.Hour))
	recent := s.NewItem(time.Now())
	writeWav(t, old.Path)
	writeWav(t, recent.Path)
	if _, err := s.Add(old); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(recent); err != nil {
		t.Fatal(err)
	}

	n, err := s.Purge(30 * 24 * time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}
	items := s.List()
	if len(items) != 1 || items[0].ID != recent.ID {
		t.Fatalf("wrong survivor: %+v", items)
	}
}
