package sluice

import (
	"github.com/masterwizr/sluice/internal/config"
	"github.com/masterwizr/sluice/internal/engine"
	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/engine/normalizer"
	"github.com/masterwizr/sluice/internal/model"
)

// Bucket names a deployment environment and the exact domains that belong
// to it.
type Bucket struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

// Partition is one environment bucket's share of a processed batch.
type Partition struct {
	Bucket  string           `json:"bucket"`
	Records []map[string]any `json:"records"`
}

// Result is the outcome of processing one batch of raw records.
type Result struct {
	Partitions []Partition `json:"partitions"`
	Total      int         `json:"total"`
	Unmatched  int         `json:"unmatched"`
}

// Sluice normalizes raw analytics records and partitions them by deployment
// environment. Safe for concurrent use.
type Sluice struct {
	engine     *engine.Engine
	normalizer *normalizer.Normalizer
}

// New creates a Sluice instance. With no options it uses the stock field
// exclusions, the "event_properties_url" routing field, and the standard
// staging/beta/production buckets.
func New(opts ...Option) *Sluice {
	o := options{
		urlField:   "event_properties_url",
		exclusions: normalizer.DefaultExclusions(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	buckets := toModelBuckets(o.buckets)
	if buckets == nil {
		buckets = config.DefaultBuckets()
	}

	norm := normalizer.New(o.exclusions)
	eng := engine.New(norm, classifier.New(o.urlField, buckets))
	return &Sluice{engine: eng, normalizer: norm}
}

// Process normalizes and partitions a batch of raw records. Input order is
// preserved within each partition. Records matching no bucket are dropped
// and counted in Result.Unmatched.
func (s *Sluice) Process(raws []map[string]any) Result {
	batch := make([]model.RawRecord, len(raws))
	for i, r := range raws {
		batch[i] = model.RawRecord(r)
	}

	out := s.engine.ProcessBatch(batch)

	parts := make([]Partition, len(out.Partitions))
	for i, p := range out.Partitions {
		recs := make([]map[string]any, len(p.Records))
		for j, rec := range p.Records {
			recs[j] = map[string]any(rec)
		}
		parts[i] = Partition{Bucket: p.Bucket.Name, Records: recs}
	}
	return Result{Partitions: parts, Total: out.Total, Unmatched: out.Unmatched}
}

// Normalize applies flattening, field exclusion, and snake-casing to a
// single raw record without classifying it.
func (s *Sluice) Normalize(raw map[string]any) map[string]any {
	return map[string]any(s.normalizer.Normalize(model.RawRecord(raw)))
}

func toModelBuckets(buckets []Bucket) []model.Bucket {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]model.Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = model.Bucket{Name: b.Name, Domains: b.Domains}
	}
	return out
}
