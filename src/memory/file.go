package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes each session to <dir>/session_<id>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "memory"
	}
	return &FileStore{Dir: dir}
}

func (s *FileStore) Save(_ context.Context, session *Session) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create memory dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("session_%s.json", session.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	return path, nil
}

var _ Store = (*FileStore)(nil)
