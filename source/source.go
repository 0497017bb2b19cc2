// Package source loads the original document bytes an export runs
// against, from disk, over HTTP, or from memory.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Fetcher retrieves the raw bytes of the source document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// BytesFetcher serves a document already held in memory.
type BytesFetcher []byte

func (b BytesFetcher) Fetch(context.Context) ([]byte, error) { return b, nil }

// FileFetcher reads the document from the local filesystem.
type FileFetcher struct {
	Path string
}

func (f FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return data, nil
}

// HTTPFetcher downloads the document from a URL.
type HTTPFetcher struct {
	URL string

	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", f.URL, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", f.URL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", f.URL, err)
	}
	return data, nil
}

// CachingFetcher wraps a Fetcher and reuses the first successful
// result, so repeated exports of the same session do not refetch.
type CachingFetcher struct {
	inner Fetcher

	mu     sync.Mutex
	data   []byte
	digest [32]byte
	cached bool
}

func NewCachingFetcher(inner Fetcher) *CachingFetcher {
	return &CachingFetcher{inner: inner}
}

func (c *CachingFetcher) Fetch(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached {
		data, err := c.inner.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.data = data
		c.digest = blake2b.Sum256(data)
		c.cached = true
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out, nil
}

// Digest reports the blake2b-256 key of the cached content, false when
// nothing has been fetched yet.
func (c *CachingFetcher) Digest() ([32]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.digest, c.cached
}
