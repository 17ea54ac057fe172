package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetStream_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2/export" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("start") != "20210507T00" {
			t.Errorf("unexpected start %q", r.URL.Query().Get("start"))
		}
		io.WriteString(w, "{\"a\":1}\n")
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, err := c.GetStream(context.Background(), "/api/2/export", url.Values{"start": {"20210507T00"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "{\"a\":1}\n" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestGetStream_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := New(srv.URL, WithBasicAuth("key", "secret"))
	body, err := c.GetStream(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body.Close()
}

func TestGetStream_ClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetStream(context.Background(), "/missing", nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected *APIError with 404, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly 1 attempt for 4xx, got %d", calls.Load())
	}
}

func TestGetStream_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "recovered")
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, err := c.GetStream(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("expected recovery after retry, got %v", err)
	}
	body.Close()
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestGetStream_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c := New(srv.URL)
	_, err := c.GetStream(ctx, "/", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	if d := backoffDelay(1, nil); d != time.Second {
		t.Fatalf("attempt 1: expected 1s, got %v", d)
	}
	if d := backoffDelay(3, nil); d != 4*time.Second {
		t.Fatalf("attempt 3: expected 4s, got %v", d)
	}
	rateLimited := &APIError{StatusCode: 429, retryAfter: "7"}
	if d := backoffDelay(1, rateLimited); d != 7*time.Second {
		t.Fatalf("Retry-After: expected 7s, got %v", d)
	}
}
