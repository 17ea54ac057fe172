package sluice

type options struct {
	urlField   string
	buckets    []Bucket
	exclusions []string
}

// Option configures a Sluice instance.
type Option func(*options)

// WithURLField sets the flattened, snake-cased field the classifier reads
// the deployment URL from. Default: "event_properties_url".
func WithURLField(name string) Option {
	return func(o *options) {
		o.urlField = name
	}
}

// WithBuckets replaces the default environment buckets. Bucket order is
// preserved in results. A record whose domain appears in several buckets
// lands in each of them.
func WithBuckets(buckets []Bucket) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithExclusions replaces the default list of field names dropped during
// normalization. Names are matched after flattening, before snake-casing.
func WithExclusions(names []string) Option {
	return func(o *options) {
		o.exclusions = names
	}
}
