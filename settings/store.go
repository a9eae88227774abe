package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the settings file and the current in-memory snapshot. All reads
// go through Get; all writes go through Update so subscribers always see a
// consistent snapshot.
type Store struct {
	path string

	mu          sync.Mutex
	current     Settings
	subscribers []func(Settings)
}

// NewStore loads the settings file, falling back to defaults when it does not
// exist. A corrupt file is an error rather than a silent reset.
func NewStore(path string) (*Store, error) {
	st := &Store{path: path}
	s, err := load(path)
	if err != nil {
		return nil, err
	}
	st.current = s
	return st, nil
}

func load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, err
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Path returns the settings file location.
func (st *Store) Path() string { return st.path }

// Get returns the current settings snapshot.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Subscribe registers fn to run after every settings change, including changes
// picked up from disk by Watch. fn is called outside the store lock.
func (st *Store) Subscribe(fn func(Settings)) {
	st.mu.Lock()
	st.subscribers = append(st.subscribers, fn)
	st.mu.Unlock()
}

// Update applies fn to a copy of the current settings, persists the result and
// notifies subscribers. The file write is atomic: tmp file, then rename.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	next := st.current
	fn(&next)
	if err := save(st.path, next); err != nil {
		st.mu.Unlock()
		return err
	}
	st.current = next
	subs := append([]func(Settings){}, st.subscribers...)
	st.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
	return nil
}

// Reload re-reads the file and notifies subscribers when the content changed.
// Used by Watch; safe to call directly.
func (st *Store) Reload() error {
	s, err := load(st.path)
	if err != nil {
		return err
	}

	st.mu.Lock()
	if s == st.current {
		st.mu.Unlock()
		return nil
	}
	st.current = s
	subs := append([]func(Settings){}, st.subscribers...)
	st.mu.Unlock()

	for _, sub := range subs {
		sub(s)
	}
	return nil
}

func save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	// The key lives in this file; keep it private even where the rename
	// preserved looser permissions from an earlier version.
	os.Chmod(path, 0o600)
	return nil
}

// DefaultPath returns the OS-specific settings file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kiklet", "settings.json"), nil
}
