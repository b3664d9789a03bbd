package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the session as a single JSON file, surviving a full
// process restart the way browser storage survives a page reload.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Save writes the session to disk. Incomplete triples are rejected so a
// partial session can never be persisted.
func (f *FileStore) Save(s Session) error {
	if !s.Complete() {
		return ErrPartialSession
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads the stored session. A missing, unreadable, corrupt or
// incomplete file all load as ErrNoSession; a broken session file must
// never take the client down.
func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}, ErrNoSession
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, ErrNoSession
	}
	if !s.Complete() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Clear removes the session file if present.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
