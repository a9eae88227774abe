// Package storage keeps captured recordings on disk together with a JSON
// index so listing does not have to stat every file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Weeki513/Kiklet/log"
)

const (
	indexFilename = "recordings.json"
	indexVersion  = 1
)

// Item describes one stored recording.
type Item struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	CreatedAt   string  `json:"created_at"`
	DurationSec float64 `json:"duration_sec"`
	SizeBytes   int64   `json:"size_bytes"`

	// Path is the absolute file location. Derived, not persisted.
	Path string `json:"-"`
}

type index struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Store manages the recordings directory and its index.
type Store struct {
	dir string

	mu    sync.Mutex
	items []Item
}

// Open prepares dir (creating it if needed) and loads the index. A missing
// or unreadable index is rebuilt from the .wav files present.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating recordings dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := s.load(); err != nil {
		log.Warnf("recordings index unreadable, rebuilding: %v", err)
		if err := s.rebuild(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dir returns the recordings directory.
func (s *Store) Dir() string {
	return s.dir
}

// NewItem reserves an id and target path for a recording about to be
// captured. Nothing is persisted until Add is called.
func (s *Store) NewItem(now time.Time) Item {
	id := uuid.NewString()
	name := fmt.Sprintf("%s_%s.wav", now.Format("2006-01-02_15-04-05"), id[:8])
	return Item{
		ID:        id,
		Filename:  name,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Path:      filepath.Join(s.dir, name),
	}
}

// Add records a finished capture in the index. The file must already exist;
// its size is read from disk.
func (s *Store) Add(it Item) (Item, error) {
	fi, err := os.Stat(filepath.Join(s.dir, it.Filename))
	if err != nil {
		return Item{}, fmt.Errorf("stat recording: %w", err)
	}
	it.SizeBytes = fi.Size()
	it.Path = filepath.Join(s.dir, it.Filename)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, it)
	if err := s.save(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// List returns all items, newest first.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// Remove deletes one recording and drops it from the index.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID != id {
			continue
		}
		// Refuse anything that would escape the recordings dir.
		if filepath.Base(it.Filename) != it.Filename {
			return fmt.Errorf("invalid filename %q in index", it.Filename)
		}
		if err := os.Remove(filepath.Join(s.dir, it.Filename)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing recording: %w", err)
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return s.save()
	}
	return fmt.Errorf("recording %s not found", id)
}

// Purge deletes recordings older than maxAge and returns how many were
// removed. Items whose timestamps cannot be parsed are left alone.
func (s *Store) Purge(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var kept []Item
	removed := 0
	for _, it := range s.items {
		created, err := time.Parse(time.RFC3339, it.CreatedAt)
		if err != nil || !created.Before(cutoff) {
			kept = append(kept, it)
			continue
		}
		if filepath.Base(it.Filename) != it.Filename {
			kept = append(kept, it)
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, it.Filename)); err != nil && !os.IsNotExist(err) {
			log.Warnf("purge: %v", err)
			kept = append(kept, it)
			continue
		}
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	s.items = kept
	return removed, s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFilename))
	if err != nil {
		return err
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}
	for i := range idx.Items {
		idx.Items[i].Path = filepath.Join(s.dir, idx.Items[i].Filename)
	}
	s.items = idx.Items
	return nil
}

// rebuild regenerates the index from .wav files on disk. Durations are
// unknown for rebuilt entries.
func (s *Store) rebuild() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	var items []Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".wav") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{
			ID:        uuid.NewString(),
			Filename:  e.Name(),
			CreatedAt: fi.ModTime().UTC().Format(time.RFC3339),
			SizeBytes: fi.Size(),
			Path:      filepath.Join(s.dir, e.Name()),
		})
	}
	s.items = items
	return s.save()
}

func (s *Store) save() error {
	idx := index{Version: indexVersion, Items: s.items}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, indexFilename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
