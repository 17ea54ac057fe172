// Package objstore defines the object/byte-stream collaborator: a bucket
// of NDJSON objects addressed by date-scoped key prefixes.
package objstore

import (
	"context"
	"io"
)

// Store is the interface the pipeline consumes. The export stage writes
// objects under a provider prefix; the load stage lists and fetches them.
type Store interface {
	// List returns the keys of all objects under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get opens the body of one object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes one object. size may be -1 when unknown (streaming).
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}
