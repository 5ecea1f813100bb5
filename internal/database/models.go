// internal/database/models.go
package database

import (
	"time"
)

// Run is one invocation of the generator.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Duration     float64   `json:"duration_ms"`
	OutputDir    string    `json:"output_dir"`
	Font         string    `json:"font"`
	FontFallback bool      `json:"font_fallback"`
	Outputs      []Output  `json:"outputs"`
	Error        string    `json:"error,omitempty"`
}

// Output is one file written during a run.
type Output struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bytes   int    `json:"bytes"`
	Digest  string `json:"digest"`
	Changed bool   `json:"changed"`
}

// Succeeded reports whether the run wrote every output.
func (r *Run) Succeeded() bool {
	return r.Error == ""
}

// Stats provides information about stored history
type Stats struct {
	TotalRuns    int       `json:"total_runs"`
	FailedRuns   int       `json:"failed_runs"`
	TrackedFiles int       `json:"tracked_files"`
	DatabaseSize int64     `json:"database_size_bytes"`
	OldestRun    time.Time `json:"oldest_run"`
	NewestRun    time.Time `json:"newest_run"`
}
