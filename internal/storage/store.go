package storage

import (
	"context"
	"errors"
)

// ErrBranchNotFound is returned by Load when no record exists for the
// requested branch code.
var ErrBranchNotFound = errors.New("branch record not found")

// Store persists branch records. Save overwrites the full record for the
// branch; Load retrieves it or reports ErrBranchNotFound.
type Store interface {
	Save(ctx context.Context, record BranchRecord) error
	Load(ctx context.Context, branchCode string) (BranchRecord, error)
}
