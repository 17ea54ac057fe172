// Package normalizer rewrites raw provider events into single-level
// records with canonical snake_case column names.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/masterwizr/sluice/internal/model"
)

// separator joins nested key paths and replaces non-canonical characters.
const separator = "_"

// DefaultExclusions lists columns that carry no analytic value (device
// metadata, attribution flags, organization identifiers). Matched exactly
// against flattened, prefix-stripped names before snake-casing.
func DefaultExclusions() []string {
	return []string{
		"app", "amplitude_event_type", "device_type", "device_carrier",
		"device_brand", "device_family", "device_manufacturer",
		"location_lat", "location_lng", "dma", "idfa", "adid", "library",
		"platform", "paying", "groups", "group_properties", "start_version",
		"version_name", "sample_rate", "is_attribution_event",
		"amplitude_attribution_ids", "event_properties_organizationId",
		"user_properties_organizationId",
	}
}

// Normalizer flattens nested records and canonicalizes their column names.
// It is pure: malformed-but-well-typed input degrades gracefully, never to
// an error.
type Normalizer struct {
	exclude map[string]struct{}
}

// New creates a Normalizer dropping the given columns. Unknown names in
// the exclusion list are simply never matched.
func New(exclusions []string) *Normalizer {
	ex := make(map[string]struct{}, len(exclusions))
	for _, name := range exclusions {
		ex[name] = struct{}{}
	}
	return &Normalizer{exclude: ex}
}

// Normalize flattens one raw record, strips the provider's '$' marker,
// drops excluded columns, and snake-cases the remaining names.
func (n *Normalizer) Normalize(raw model.RawRecord) model.Record {
	flat := model.Record{}
	flatten("", map[string]any(raw), flat)

	out := make(model.Record, len(flat))
	for key, val := range flat {
		name := strings.Trim(key, "$")
		if _, drop := n.exclude[name]; drop {
			continue
		}
		out[snakeCase(name)] = val
	}
	return out
}

// NormalizeBatch normalizes a batch, preserving order and cardinality.
func (n *Normalizer) NormalizeBatch(raws []model.RawRecord) []model.Record {
	out := make([]model.Record, len(raws))
	for i, raw := range raws {
		out[i] = n.Normalize(raw)
	}
	return out
}

// flatten descends into nested maps, joining parent and child keys with
// the separator. Lists are preserved as-is.
func flatten(prefix string, m map[string]any, out model.Record) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + separator + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// snakeCase inserts the separator before every non-first uppercase rune,
// lowercases everything, and replaces literal periods with the separator.
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		switch {
		case r == '.':
			b.WriteString(separator)
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteString(separator)
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
