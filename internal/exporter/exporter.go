// Package exporter lands a day's raw export in the object store, where
// the load stage later picks it up by date-scoped prefix.
package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/masterwizr/sluice/internal/connector"
	"github.com/masterwizr/sluice/internal/objstore"
)

// Stats summarizes one export stage.
type Stats struct {
	Objects int   `json:"objects"`
	Bytes   int64 `json:"bytes"`
}

// Exporter streams connector exports into the object store.
type Exporter struct {
	conn   connector.Connector
	store  objstore.Store
	prefix string // e.g. "amplitude/"
}

// New creates an Exporter writing under the given key prefix.
func New(conn connector.Connector, store objstore.Store, prefix string) *Exporter {
	return &Exporter{conn: conn, store: store, prefix: prefix}
}

// Run fetches the day's export and uploads each stream as one object.
// Sizes are unknown up front, so uploads stream with size -1.
func (e *Exporter) Run(ctx context.Context, cfg connector.Config, date string) (Stats, error) {
	exports, err := e.conn.Fetch(ctx, cfg, date)
	if err != nil {
		return Stats{}, fmt.Errorf("exporter: %w", err)
	}

	var st Stats
	for _, ex := range exports {
		key := e.prefix + ex.Name
		counter := &countingReader{r: ex.Body}
		err := e.store.Put(ctx, key, counter, -1, "application/json")
		ex.Body.Close()
		if err != nil {
			return st, fmt.Errorf("exporter: upload %s: %w", key, err)
		}
		st.Objects++
		st.Bytes += counter.n
		slog.Info("landed export object", "key", key, "bytes", counter.n)
	}
	return st, nil
}

// countingReader tracks how many bytes passed through.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
