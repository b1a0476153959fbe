package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore keeps one JSON file per branch under a data directory. Writes go
// through a temp file plus rename so a failed write never corrupts the
// previous snapshot.
type JSONStore struct {
	dir string
}

// NewJSONStore creates the data directory if needed and returns the store.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(branchCode string) string {
	return filepath.Join(s.dir, branchCode+".json")
}

// Save serializes the record and atomically replaces the branch file.
func (s *JSONStore) Save(_ context.Context, record BranchRecord) error {
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal branch record: %w", err)
	}

	target := s.path(record.BranchCode)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads and decodes the branch file, or reports ErrBranchNotFound.
func (s *JSONStore) Load(_ context.Context, branchCode string) (BranchRecord, error) {
	data, err := os.ReadFile(s.path(branchCode))
	if err != nil {
		if os.IsNotExist(err) {
			return BranchRecord{}, ErrBranchNotFound
		}
		return BranchRecord{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var record BranchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return BranchRecord{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return record, nil
}
