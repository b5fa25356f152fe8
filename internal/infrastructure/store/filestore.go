// Package store persists run artifacts under a per-run directory.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"policy-agent/internal/application/port/output"
)

var _ output.ArtifactStore = (*FileStore)(nil)

// FileStore writes one JSON file per stage under <root>/<runID>/<key>/ and
// summary text files at the run directory root.
type FileStore struct {
	dir string
}

func NewFileStore(root, runID string) (*FileStore, error) {
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) WriteArtifact(key string, data any) error {
	stageDir := filepath.Join(s.dir, key)
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("create artifact dir %s: %w", key, err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", key, err)
	}

	path := filepath.Join(stageDir, key+"_output.json")
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write artifact %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) WriteSummary(name, text string) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(text), 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) Dir() string {
	return s.dir
}
