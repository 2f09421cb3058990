package visibility

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// StateVersion is the schema version written by Save.
const StateVersion = 1

// State is the persisted form of a Store.
//
//	{
//	  "version": 1,
//	  "source": "dir:/srv/site",
//	  "expanded": ["content/posts"],
//	  "collapsed": ["content/docs"]
//	}
type State struct {
	Version   int      `json:"version"`
	Source    string   `json:"source,omitempty"`
	Expanded  []string `json:"expanded"`
	Collapsed []string `json:"collapsed"`
}

// Snapshot copies the store into a State.
func (s *Store) Snapshot() State {
	return State{
		Version:   StateVersion,
		Source:    s.source,
		Expanded:  s.Expanded(),
		Collapsed: s.Collapsed(),
	}
}

// Restore replaces the store contents with state. A path listed in both
// sets ends up collapsed.
func (s *Store) Restore(state State) {
	s.Reset()
	s.source = state.Source
	for _, path := range state.Expanded {
		s.SetExpanded(path, true)
	}
	for _, path := range state.Collapsed {
		s.SetExpanded(path, false)
	}
}

// Save writes the store as JSON, creating parent directories.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal visibility state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write visibility state: %w", err)
	}
	return nil
}

// Load reads a store saved by Save. A missing file yields an empty store and
// no error; a corrupt file yields an empty store and the decode error so the
// caller can warn about it.
func Load(path string) (*Store, error) {
	store := New()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return store, fmt.Errorf("read visibility state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return store, fmt.Errorf("decode visibility state: %w", err)
	}
	if state.Version > StateVersion {
		return store, fmt.Errorf("visibility state version %d is newer than %d", state.Version, StateVersion)
	}
	store.Restore(state)
	return store, nil
}
