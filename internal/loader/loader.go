// Package loader performs the idempotent upsert of partitioned records
// into per-bucket collections.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/masterwizr/sluice/internal/docstore"
	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/model"
)

// UniqueField is the record identifier the store enforces uniqueness on.
// Re-running a day's batch makes every write a duplicate of this field,
// which is absorbed silently.
const UniqueField = "insert_id"

// Stats summarizes one bucket's load.
type Stats struct {
	Bucket     string `json:"bucket"`
	Attempted  int    `json:"attempted"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// Loader writes environment partitions through a document store.
type Loader struct {
	store docstore.Store
}

// New creates a Loader over the given store.
func New(store docstore.Store) *Loader {
	return &Loader{store: store}
}

// Load ensures the bucket's unique index and inserts its records.
// Duplicate insert_id rejections are counted and absorbed; any other write
// error aborts this bucket only.
func (l *Loader) Load(ctx context.Context, bucket string, records []model.Record) (Stats, error) {
	st := Stats{Bucket: bucket, Attempted: len(records)}
	if len(records) == 0 {
		return st, nil
	}

	if err := l.store.EnsureUniqueIndex(ctx, bucket, UniqueField); err != nil {
		return st, fmt.Errorf("loader: bucket %s: %w", bucket, err)
	}

	inserted, err := l.store.InsertMany(ctx, bucket, records)
	st.Inserted = inserted
	if err == nil {
		return st, nil
	}

	var be *docstore.BulkError
	if errors.As(err, &be) {
		st.Duplicates = be.Duplicates()
		if st.Duplicates > 0 {
			slog.Debug("absorbed duplicate insert_id rejections",
				"bucket", bucket, "count", st.Duplicates)
		}
		if failures := be.Failures(); len(failures) > 0 {
			slog.Error("bucket load failed",
				"bucket", bucket, "failures", len(failures), "first", failures[0].Message)
			return st, fmt.Errorf("loader: bucket %s: %w", bucket, err)
		}
		return st, nil
	}

	slog.Error("bucket load failed", "bucket", bucket, "error", err)
	return st, fmt.Errorf("loader: bucket %s: %w", bucket, err)
}

// LoadAll loads every partition as an independent unit of work: one failed
// bucket does not stop the others. Bucket failures are joined into the
// returned error; stats cover all buckets, failed or not.
func (l *Loader) LoadAll(ctx context.Context, parts []classifier.Partition) ([]Stats, error) {
	stats := make([]Stats, 0, len(parts))
	var errs []error
	for _, p := range parts {
		st, err := l.Load(ctx, p.Bucket.Name, p.Records)
		stats = append(stats, st)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return stats, errors.Join(errs...)
}
