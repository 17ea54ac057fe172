// Package connector defines the export-source interface: where a day's
// raw analytics events come from before they land in the object store.
package connector

import (
	"context"
	"io"
)

// Connector fetches one day's raw export as named NDJSON streams.
// Archive-wrapped exports must be unpacked upstream; connectors hand the
// pipeline line-delimited JSON only.
type Connector interface {
	Fetch(ctx context.Context, cfg Config, date string) ([]Export, error)
}

// Export is one NDJSON stream of the day's export. Name becomes the
// object key suffix when the exporter lands it.
type Export struct {
	Name string
	Body io.ReadCloser
}

// Config holds provider-specific source settings.
type Config struct {
	Provider  string
	APIKey    string
	SecretKey string
	ProjectID string
	Endpoint  string // base URL override
	Dir       string // file provider: directory of export files
}
