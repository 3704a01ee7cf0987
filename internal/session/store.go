package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists snapshots as JSON files, one per session.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Path returns the file a session's snapshot is written to.
func (st *Store) Path(id string) string {
	return filepath.Join(st.baseDir, id+".json")
}

// Save writes snap, replacing any earlier snapshot of the same session.
func (st *Store) Save(snap *Snapshot) (string, error) {
	if err := os.MkdirAll(st.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := st.Path(snap.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// Load reads the snapshot saved for id.
func (st *Store) Load(id string) (*Snapshot, error) {
	return LoadFile(st.Path(id))
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}
