package model

// RawRecord is one event exactly as exported by the analytics provider:
// an arbitrarily nested, string-keyed JSON object.
type RawRecord map[string]any

// Record is a normalized event: a single-level mapping from canonical
// snake_case column name to scalar or list value. Records are sparse —
// a key present in one record may be absent from another.
type Record map[string]any
