// Package stdoutsink prints partitioned records as NDJSON instead of
// writing to the document store. Used for dry runs; nothing is persisted,
// so every run reports zero duplicates.
package stdoutsink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/masterwizr/sluice/internal/engine/classifier"
	"github.com/masterwizr/sluice/internal/loader"
)

// Sink writes one JSON line per record, tagged with its bucket.
type Sink struct {
	enc *json.Encoder
}

// New creates a Sink writing to stdout.
func New() *Sink {
	return NewWriter(os.Stdout)
}

// NewWriter creates a Sink writing to w.
func NewWriter(w io.Writer) *Sink {
	return &Sink{enc: json.NewEncoder(w)}
}

type line struct {
	Bucket string         `json:"bucket"`
	Record map[string]any `json:"record"`
}

// Load prints every partition's records and reports them all as inserted.
func (s *Sink) Load(_ context.Context, parts []classifier.Partition) ([]loader.Stats, error) {
	stats := make([]loader.Stats, 0, len(parts))
	for _, p := range parts {
		st := loader.Stats{Bucket: p.Bucket.Name, Attempted: len(p.Records)}
		for _, rec := range p.Records {
			if err := s.enc.Encode(line{Bucket: p.Bucket.Name, Record: rec}); err != nil {
				return stats, fmt.Errorf("stdout sink: %w", err)
			}
			st.Inserted++
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (s *Sink) Close(context.Context) error { return nil }
