package records

import (
	"errors"
	"strings"
	"testing"
)

func TestRead_Basic(t *testing.T) {
	in := `{"event_type":"click","uuid":"a1"}
{"event_type":"view","uuid":"a2"}
`
	recs, err := Read("day0.json", strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["event_type"] != "click" {
		t.Fatalf("expected first record event_type 'click', got %v", recs[0]["event_type"])
	}
	if recs[1]["uuid"] != "a2" {
		t.Fatalf("expected second record uuid 'a2', got %v", recs[1]["uuid"])
	}
}

func TestRead_NestedValues(t *testing.T) {
	in := `{"event_properties":{"url":"https://studio.masterwizr.com/x","tags":[1,2]}}`
	recs, err := Read("day0.json", strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props, ok := recs[0]["event_properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", recs[0]["event_properties"])
	}
	if props["url"] != "https://studio.masterwizr.com/x" {
		t.Fatalf("expected nested url preserved, got %v", props["url"])
	}
}

func TestRead_BlankLinesTolerated(t *testing.T) {
	in := "{\"a\":1}\n\n  \n{\"b\":2}\n\n"
	recs, err := Read("day0.json", strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestRead_BadLineFailsBatch(t *testing.T) {
	in := "{\"a\":1}\nnot json\n{\"b\":2}\n"
	recs, err := Read("day0.json", strings.NewReader(in))
	if err == nil {
		t.Fatal("expected error for unparsable line")
	}
	if recs != nil {
		t.Fatalf("expected no partial output, got %d records", len(recs))
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *SourceError, got %T", err)
	}
	if srcErr.Source != "day0.json" || srcErr.Line != 2 {
		t.Fatalf("expected source day0.json line 2, got %s line %d", srcErr.Source, srcErr.Line)
	}
}

func TestRead_Empty(t *testing.T) {
	recs, err := Read("empty.json", strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected 0 records, got %d", len(recs))
	}
}

func TestReadAll_MergesInOrder(t *testing.T) {
	sources := []Source{
		{Name: "a.json", Body: strings.NewReader("{\"n\":1}\n{\"n\":2}\n")},
		{Name: "b.json", Body: strings.NewReader("{\"n\":3}\n")},
	}
	recs, err := ReadAll(sources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []float64{1, 2, 3} {
		if recs[i]["n"] != want {
			t.Errorf("record %d: expected n=%v, got %v", i, want, recs[i]["n"])
		}
	}
}

func TestReadAll_PartialSourceFailureAbortsAll(t *testing.T) {
	sources := []Source{
		{Name: "good.json", Body: strings.NewReader("{\"n\":1}\n")},
		{Name: "bad.json", Body: strings.NewReader("{broken\n")},
	}
	recs, err := ReadAll(sources)
	if err == nil {
		t.Fatal("expected error when one source is bad")
	}
	if recs != nil {
		t.Fatalf("expected no partial output, got %d records", len(recs))
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *SourceError, got %T", err)
	}
	if srcErr.Source != "bad.json" {
		t.Fatalf("expected failing source 'bad.json', got %q", srcErr.Source)
	}
}
