// Package sink defines where one daily batch's environment partitions end
// up: the document store, or stdout for dry runs.
package sink

import (
	"context"

	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/loader"
)

// Sink receives the partitioned batch of one run.
type Sink interface {
	Load(ctx context.Context, parts []classifier.Partition) ([]loader.Stats, error)
	Close(ctx context.Context) error
}
