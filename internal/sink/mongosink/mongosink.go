// Package mongosink loads partitions into MongoDB through the idempotent
// loader.
package mongosink

import (
	"context"

	"github.com/masterwizr/sluice/internal/docstore"
	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/loader"
)

// Sink owns the store connection for one run and closes it on Close.
type Sink struct {
	store  docstore.Store
	loader *loader.Loader
}

// New creates a Sink over an already-connected store.
func New(store docstore.Store) *Sink {
	return &Sink{store: store, loader: loader.New(store)}
}

// Load writes every partition to its bucket collection.
func (s *Sink) Load(ctx context.Context, parts []classifier.Partition) ([]loader.Stats, error) {
	return s.loader.LoadAll(ctx, parts)
}

// Close disconnects the store.
func (s *Sink) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}
