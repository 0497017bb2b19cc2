package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	want := []byte("%PDF-1.7\nfake")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := FileFetcher{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Fetch = %q, want %q", got, want)
	}

	if _, err := (FileFetcher{Path: filepath.Join(t.TempDir(), "missing.pdf")}).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileFetcherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileFetcher{Path: "whatever"}).Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestHTTPFetcher(t *testing.T) {
	want := []byte("%PDF-1.7\nremote")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(want)
	}))
	defer srv.Close()

	got, err := HTTPFetcher{URL: srv.URL}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Fetch = %q, want %q", got, want)
	}
}

func TestHTTPFetcherRejectsNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := (HTTPFetcher{URL: srv.URL}).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

type countingFetcher struct {
	data  []byte
	calls int
}

func (c *countingFetcher) Fetch(context.Context) ([]byte, error) {
	c.calls++
	return c.data, nil
}

func TestCachingFetcher(t *testing.T) {
	inner := &countingFetcher{data: []byte("payload")}
	c := NewCachingFetcher(inner)

	if _, ok := c.Digest(); ok {
		t.Fatal("digest should be absent before the first fetch")
	}

	first, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner fetched %d times, want 1", inner.calls)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("cached fetches disagree")
	}

	// Callers get copies; mutating one must not poison the cache.
	first[0] = 'X'
	third, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(third, []byte("payload")) {
		t.Fatalf("cache was mutated through a returned slice: %q", third)
	}

	if sum, ok := c.Digest(); !ok || sum == ([32]byte{}) {
		t.Fatal("digest should be set after a successful fetch")
	}
}

type failingFetcher struct{ calls int }

func (f *failingFetcher) Fetch(context.Context) ([]byte, error) {
	f.calls++
	return nil, errors.New("boom")
}

func TestCachingFetcherDoesNotCacheFailures(t *testing.T) {
	inner := &failingFetcher{}
	c := NewCachingFetcher(inner)
	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Fatalf("inner fetched %d times, want 2 (failures are not cached)", inner.calls)
	}
}
