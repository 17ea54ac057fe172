// Package engine runs the normalize → partition stages over one daily batch.
package engine

import (
	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/engine/normalizer"
	"github.com/masterwizr/sluice/internal/model"
)

// Engine orchestrates schema normalization and environment partitioning.
// Both stages are pure; the engine never fails on malformed-but-well-typed
// input.
type Engine struct {
	normalizer *normalizer.Normalizer
	classifier *classifier.Classifier
}

// BatchResult is the outcome of processing one daily batch.
type BatchResult struct {
	Partitions []classifier.Partition
	Total      int // records in the input batch
	Unmatched  int // records routed to no bucket
}

// New creates an Engine from the provided components.
func New(n *normalizer.Normalizer, c *classifier.Classifier) *Engine {
	return &Engine{normalizer: n, classifier: c}
}

// ProcessBatch normalizes a raw batch and partitions it by environment.
func (e *Engine) ProcessBatch(raws []model.RawRecord) BatchResult {
	recs := e.normalizer.NormalizeBatch(raws)
	parts, unmatched := e.classifier.Partition(recs)
	return BatchResult{
		Partitions: parts,
		Total:      len(raws),
		Unmatched:  unmatched,
	}
}
