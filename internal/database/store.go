// internal/database/store.go
package database

import (
	"context"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// Store defines the interface for run history operations
type Store interface {
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// LatestDigests maps output file names to the digest last recorded
	// for them.
	LatestDigests(ctx context.Context) (map[string]string, error)

	PruneRuns(ctx context.Context, before time.Time) (int, error)
	GetStats(ctx context.Context) (*Stats, error)

	// Close the database connection
	Close() error
}
