// Package docstore defines the document-store sink collaborator and the
// typed errors that distinguish duplicate-key conflicts from real write
// failures.
package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/masterwizr/sluice/internal/model"
)

// Store is the interface the loader writes through.
type Store interface {
	// EnsureUniqueIndex creates (if absent) a unique index on field for
	// the given collection.
	EnsureUniqueIndex(ctx context.Context, collection, field string) error

	// InsertMany attempts to insert every record into the collection and
	// returns the number actually written. Per-record rejections are
	// reported via *BulkError; records not listed there were inserted.
	InsertMany(ctx context.Context, collection string, records []model.Record) (int, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// duplicateKeyCode is the store-side error code for a unique-index
// violation (Mongo E11000).
const duplicateKeyCode = 11000

// WriteError is one rejected record from a bulk insert.
type WriteError struct {
	Index   int // position in the submitted batch
	Code    int
	Message string
}

// Duplicate reports whether the rejection was purely a unique-constraint
// violation — the expected re-run-safety path.
func (e WriteError) Duplicate() bool { return e.Code == duplicateKeyCode }

func (e WriteError) Error() string {
	return fmt.Sprintf("record %d: code %d: %s", e.Index, e.Code, e.Message)
}

// BulkError reports the per-record rejections of one bulk insert.
type BulkError struct {
	Collection string
	Errors     []WriteError
}

func (e *BulkError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, we := range e.Errors {
		msgs[i] = we.Error()
	}
	return fmt.Sprintf("docstore: %d write error(s) on %s: %s",
		len(e.Errors), e.Collection, strings.Join(msgs, "; "))
}

// Duplicates counts rejections that were duplicate-key conflicts.
func (e *BulkError) Duplicates() int {
	n := 0
	for _, we := range e.Errors {
		if we.Duplicate() {
			n++
		}
	}
	return n
}

// Failures returns the rejections that were NOT duplicate-key conflicts.
func (e *BulkError) Failures() []WriteError {
	var out []WriteError
	for _, we := range e.Errors {
		if !we.Duplicate() {
			out = append(out, we)
		}
	}
	return out
}

// ConnectError reports that the store is unreachable. It aborts the load
// stage for all buckets.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("docstore: connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
