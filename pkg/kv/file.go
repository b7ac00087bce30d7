package kv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot persists the payload as a single file on disk. Writes go through
// a temp file plus rename and are verified by reading the result back.
type FileSlot struct {
	path string
}

// NewFileSlot ensures the parent directory exists and returns a handle.
func NewFileSlot(path string) (*FileSlot, error) {
	if path == "" {
		return nil, fmt.Errorf("file slot requires a path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create slot directory: %w", err)
		}
	}
	return &FileSlot{path: path}, nil
}

// Load reads the slot file. A missing file means the slot is empty.
func (s *FileSlot) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot file: %w", err)
	}
	return data, true, nil
}

// Store writes the payload to a temp file, renames it into place, and
// confirms the write by re-reading the file.
func (s *FileSlot) Store(_ context.Context, payload []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write slot temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace slot file: %w", err)
	}

	written, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("verify slot write: %w", err)
	}
	if !bytes.Equal(written, payload) {
		return fmt.Errorf("slot write verification mismatch")
	}
	return nil
}
