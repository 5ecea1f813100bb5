// internal/database/boltstore.go - BoltDB run history
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var (
	RunsBucket     = []byte("runs")
	RunIndexBucket = []byte("run_index")
	DigestsBucket  = []byte("digests")
)

type BoltStore struct {
	db   *bbolt.DB
	path string
}

func NewBoltStore(path string) (*BoltStore, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	store := &BoltStore{db: db, path: path}

	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

func (s *BoltStore) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{RunsBucket, RunIndexBucket, DigestsBucket}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
}

// indexKey orders runs by start time; the id suffix keeps keys unique.
func indexKey(run *Run) []byte {
	return []byte(fmt.Sprintf("%020d:%s", run.StartedAt.UnixNano(), run.ID))
}

func (s *BoltStore) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(RunsBucket).Put([]byte(run.ID), data); err != nil {
			return err
		}
		if err := tx.Bucket(RunIndexBucket).Put(indexKey(run), []byte(run.ID)); err != nil {
			return err
		}

		digests := tx.Bucket(DigestsBucket)
		for _, out := range run.Outputs {
			if out.Digest == "" {
				continue
			}
			if err := digests.Put([]byte(out.Name), []byte(out.Digest)); err != nil {
				return fmt.Errorf("failed to store digest for %s: %w", out.Name, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(RunsBucket).Get([]byte(id))
		if v == nil {
			return ErrRunNotFound
		}
		return json.Unmarshal(v, &run)
	})

	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *BoltStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		runsBucket := tx.Bucket(RunsBucket)
		c := tx.Bucket(RunIndexBucket).Cursor()

		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			v := runsBucket.Get(id)
			if v == nil {
				continue
			}

			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				logrus.WithField("run_id", string(id)).WithError(err).Warn("Skipping malformed run")
				continue
			}
			runs = append(runs, run)

			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})

	return runs, err
}

func (s *BoltStore) LatestDigests(ctx context.Context) (map[string]string, error) {
	digests := make(map[string]string)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(DigestsBucket).ForEach(func(k, v []byte) error {
			digests[string(k)] = string(v)
			return nil
		})
	})

	return digests, err
}

// PruneRuns removes runs that started before the cutoff. Recorded digests
// are kept so change detection still works after pruning.
func (s *BoltStore) PruneRuns(ctx context.Context, before time.Time) (int, error) {
	deleted := 0
	cutoff := []byte(fmt.Sprintf("%020d:", before.UnixNano()))

	err := s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(RunIndexBucket)
		runsBucket := tx.Bucket(RunsBucket)

		// Collect keys to delete
		var keysToDelete, idsToDelete [][]byte
		c := index.Cursor()
		for k, id := c.First(); k != nil && bytes.Compare(k, cutoff) < 0; k, id = c.Next() {
			keysToDelete = append(keysToDelete, copyBytes(k))
			idsToDelete = append(idsToDelete, copyBytes(id))
		}

		for i, key := range keysToDelete {
			if err := index.Delete(key); err != nil {
				return fmt.Errorf("failed to delete index entry: %w", err)
			}
			if err := runsBucket.Delete(idsToDelete[i]); err != nil {
				return fmt.Errorf("failed to delete run %s: %w", idsToDelete[i], err)
			}
			deleted++
		}
		return nil
	})

	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"deleted": deleted,
			"before":  before.Format(time.RFC3339),
		}).Info("Pruned run history")
	}

	return deleted, nil
}

func (s *BoltStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		err := tx.Bucket(RunsBucket).ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return nil // Skip malformed entries
			}

			stats.TotalRuns++
			if !run.Succeeded() {
				stats.FailedRuns++
			}
			if stats.OldestRun.IsZero() || run.StartedAt.Before(stats.OldestRun) {
				stats.OldestRun = run.StartedAt
			}
			if run.StartedAt.After(stats.NewestRun) {
				stats.NewestRun = run.StartedAt
			}
			return nil
		})
		if err != nil {
			return err
		}

		stats.TrackedFiles = tx.Bucket(DigestsBucket).Stats().KeyN
		stats.DatabaseSize = tx.Size()
		return nil
	})

	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
