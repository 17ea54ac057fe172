package amplitude

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/masterwizr/sluice/internal/connector"
)

func TestFetch_ExportRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "api-key" || pass != "api-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/api/2/export" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start") != "20210507T00" || q.Get("end") != "20210507T23" {
			t.Errorf("unexpected window start=%q end=%q", q.Get("start"), q.Get("end"))
		}
		io.WriteString(w, "{\"$insert_id\":\"a\"}\n{\"$insert_id\":\"b\"}\n")
	}))
	defer srv.Close()

	c := &Connector{}
	exports, err := c.Fetch(context.Background(), connector.Config{
		APIKey:    "api-key",
		SecretKey: "api-secret",
		ProjectID: "228688",
		Endpoint:  srv.URL,
	}, "2021-05-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exports) != 1 {
		t.Fatalf("expected 1 export stream, got %d", len(exports))
	}
	defer exports[0].Body.Close()

	if exports[0].Name != "228688_2021-05-07.json" {
		t.Fatalf("unexpected export name %q", exports[0].Name)
	}
	data, err := io.ReadAll(exports[0].Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "$insert_id") {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestFetch_InvalidDate(t *testing.T) {
	c := &Connector{}
	_, err := c.Fetch(context.Background(), connector.Config{Endpoint: "http://unused"}, "05/07/2021")
	if err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestFetch_AuthFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Connector{}
	_, err := c.Fetch(context.Background(), connector.Config{
		APIKey: "bad", SecretKey: "creds", ProjectID: "x", Endpoint: srv.URL,
	}, "2021-05-07")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestRegistered(t *testing.T) {
	ctor, err := connector.Get("amplitude")
	if err != nil {
		t.Fatalf("amplitude connector not registered: %v", err)
	}
	if ctor() == nil {
		t.Fatal("constructor returned nil")
	}
}
