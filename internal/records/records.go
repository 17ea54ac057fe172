// Package records reads raw event records from line-delimited JSON sources.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/masterwizr/sluice/internal/model"
)

// Scanner buffer sizing: exports routinely carry multi-KB event rows, and
// user_properties blobs have been seen past 1MB.
const (
	initialBufSize = 64 * 1024
	maxLineSize    = 16 * 1024 * 1024
)

// SourceError reports a source that could not be parsed as line-delimited
// JSON. One bad source fails the whole batch — the run is re-executed from
// scratch rather than resumed.
type SourceError struct {
	Source string
	Line   int
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("records: source %s line %d: %v", e.Source, e.Line, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Source pairs a readable NDJSON stream with a name used in errors.
type Source struct {
	Name string
	Body io.Reader
}

// Read parses one NDJSON stream into raw records. Blank lines are
// tolerated (exports end with a trailing newline). Returns *SourceError
// on the first unparsable line.
func Read(name string, r io.Reader) ([]model.RawRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialBufSize), maxLineSize)

	var out []model.RawRecord
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec model.RawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, &SourceError{Source: name, Line: line, Err: err}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, &SourceError{Source: name, Line: line, Err: err}
	}
	return out, nil
}

// ReadAll merges several NDJSON sources into one ordered batch. No record
// is dropped; a failure in any source aborts the whole batch with no
// partial output.
func ReadAll(sources []Source) ([]model.RawRecord, error) {
	var out []model.RawRecord
	for _, src := range sources {
		recs, err := Read(src.Name, src.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}
