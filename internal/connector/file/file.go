// Package file reads a day's export from NDJSON files on local disk.
// Useful for backfills and offline runs where the provider export was
// downloaded out of band.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/masterwizr/sluice/internal/connector"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector over a directory of
// "<project>_<date>*.json" files.
type Connector struct{}

// Fetch opens every matching file in cfg.Dir, in name order.
func (c *Connector) Fetch(ctx context.Context, cfg connector.Config, date string) ([]connector.Export, error) {
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("file connector: read dir %s: %w", cfg.Dir, err)
	}

	prefix := cfg.ProjectID + "_" + date
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	exports := make([]connector.Export, 0, len(names))
	for _, name := range names {
		f, err := os.Open(filepath.Join(cfg.Dir, name))
		if err != nil {
			for _, ex := range exports {
				ex.Body.Close()
			}
			return nil, fmt.Errorf("file connector: open %s: %w", name, err)
		}
		exports = append(exports, connector.Export{Name: name, Body: f})
	}
	return exports, nil
}
