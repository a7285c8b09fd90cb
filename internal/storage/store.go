package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStore persists the full History as one pretty-printed JSON document.
// The whole file is the unit of state; saves overwrite it in full.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore wires a history file path into a store.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.With().Str("component", "file_store").Logger()}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the backing file. A missing file yields an empty History;
// malformed content is an error, never silently discarded.
func (s *FileStore) Load() (*History, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Str("path", s.path).Msg("history file absent, starting empty")
		return NewHistory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var history History
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("parse history file %s: %w", s.path, err)
	}
	if history.History == nil {
		history.History = []Snapshot{}
	}
	if history.Alerts == nil {
		history.Alerts = []Alert{}
	}
	return &history, nil
}

// Save overwrites the backing file in full, creating parent directories as
// needed, and confirms the write on stdout.
func (s *FileStore) Save(history *History) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("snapshots", len(history.History)).Msg("history saved")
	fmt.Printf("💾 Saved to %s\n", s.path)
	return nil
}
