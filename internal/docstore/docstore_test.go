package docstore

import (
	"errors"
	"strings"
	"testing"
)

func TestWriteError_Duplicate(t *testing.T) {
	if !(WriteError{Code: 11000}).Duplicate() {
		t.Fatal("code 11000 must be a duplicate")
	}
	for _, code := range []int{0, 121, 13, 11001} {
		if (WriteError{Code: code}).Duplicate() {
			t.Errorf("code %d must not be a duplicate", code)
		}
	}
}

func TestBulkError_SplitsDuplicatesFromFailures(t *testing.T) {
	be := &BulkError{
		Collection: "production",
		Errors: []WriteError{
			{Index: 0, Code: 11000, Message: "dup"},
			{Index: 2, Code: 121, Message: "schema validation failed"},
			{Index: 3, Code: 11000, Message: "dup"},
		},
	}

	if got := be.Duplicates(); got != 2 {
		t.Fatalf("expected 2 duplicates, got %d", got)
	}
	failures := be.Failures()
	if len(failures) != 1 || failures[0].Code != 121 {
		t.Fatalf("expected 1 non-duplicate failure with code 121, got %v", failures)
	}
	if !strings.Contains(be.Error(), "production") {
		t.Fatalf("expected error message to name the collection, got %q", be.Error())
	}
}

func TestConnectError_Unwrap(t *testing.T) {
	inner := errors.New("no reachable servers")
	err := &ConnectError{Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("expected ConnectError to unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "no reachable servers") {
		t.Fatalf("expected message to include cause, got %q", err.Error())
	}
}
