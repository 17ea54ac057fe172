// Package classifier derives a deployment environment for each record
// from its URL column and partitions records into environment buckets.
package classifier

import (
	"net/url"

	"github.com/masterwizr/sluice/internal/model"
)

// DomainField is the derived column carrying the record's network host.
const DomainField = "domain"

// Partition is one environment bucket's share of a batch.
type Partition struct {
	Bucket  model.Bucket
	Records []model.Record
}

// Classifier partitions normalized records by exact domain membership.
type Classifier struct {
	urlField string
	buckets  []model.Bucket
	members  []map[string]struct{}
}

// New creates a Classifier reading the host from urlField and routing to
// the given buckets. Membership is checked independently per bucket —
// overlapping domain lists route a record to every matching bucket.
func New(urlField string, buckets []model.Bucket) *Classifier {
	members := make([]map[string]struct{}, len(buckets))
	for i, b := range buckets {
		m := make(map[string]struct{}, len(b.Domains))
		for _, d := range b.Domains {
			m[d] = struct{}{}
		}
		members[i] = m
	}
	return &Classifier{urlField: urlField, buckets: buckets, members: members}
}

// Annotate sets the record's domain column from its URL field: the network
// host when the value is a string, null otherwise. Returns the domain and
// whether one was derived.
func (c *Classifier) Annotate(rec model.Record) (string, bool) {
	domain, ok := hostOf(rec[c.urlField])
	if !ok {
		rec[DomainField] = nil
		return "", false
	}
	rec[DomainField] = domain
	return domain, true
}

// Partition annotates every record and groups the batch by bucket
// membership. Records matching no bucket are dropped from all partitions;
// the unmatched count is returned alongside so callers can surface drift
// between domain tables and real deployment hosts.
func (c *Classifier) Partition(recs []model.Record) ([]Partition, int) {
	parts := make([]Partition, len(c.buckets))
	for i, b := range c.buckets {
		parts[i] = Partition{Bucket: b}
	}

	unmatched := 0
	for _, rec := range recs {
		domain, ok := c.Annotate(rec)
		if !ok {
			unmatched++
			continue
		}
		matched := false
		for i := range c.buckets {
			if _, in := c.members[i][domain]; in {
				parts[i].Records = append(parts[i].Records, rec)
				matched = true
			}
		}
		if !matched {
			unmatched++
		}
	}
	return parts, unmatched
}

// hostOf extracts the network host from a URL-shaped value. Non-string
// values, unparsable URLs, and scheme-less strings yield no host.
func hostOf(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.Host, true
}
