// Package amplitude fetches the day's event export from the Amplitude
// Export API.
package amplitude

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/masterwizr/sluice/internal/connector"
	"github.com/masterwizr/sluice/internal/connector/httpclient"
)

func init() {
	connector.Register("amplitude", func() connector.Connector {
		return &Connector{}
	})
}

const exportPath = "/api/2/export"

// Connector implements connector.Connector against the Amplitude Export
// API, authenticated with the project's API key and secret over HTTP
// Basic auth. The endpoint is expected to serve the export as
// line-delimited JSON; archive-wrapped exports are unpacked upstream.
type Connector struct{}

// Fetch requests the full day (hours 00 through 23, per the provider's
// hour-granular window format) and returns it as a single stream.
func (c *Connector) Fetch(ctx context.Context, cfg connector.Config, date string) ([]connector.Export, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("amplitude: invalid date %q: %w", date, err)
	}
	compact := day.Format("20060102")

	client := httpclient.New(cfg.Endpoint, httpclient.WithBasicAuth(cfg.APIKey, cfg.SecretKey))

	query := url.Values{
		"start": {compact + "T00"},
		"end":   {compact + "T23"},
	}
	body, err := client.GetStream(ctx, exportPath, query)
	if err != nil {
		return nil, fmt.Errorf("amplitude: export %s: %w", date, err)
	}

	// The load stage lists by the "<project>_<date>" prefix, so the
	// object name must start with it.
	name := fmt.Sprintf("%s_%s.json", cfg.ProjectID, date)
	return []connector.Export{{Name: name, Body: body}}, nil
}
