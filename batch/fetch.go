package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrFetch is wrapped by every download failure.
var ErrFetch = errors.New("batch: fetch failed")

// Fetcher downloads the bytes at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP. Any status other than 200 is an error.
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the body size when positive.
	MaxBytes int64
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}

	var body io.Reader = resp.Body
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", ErrFetch, url, f.MaxBytes)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body", ErrFetch, url)
	}

	return data, nil
}

// CachingFetcher remembers successful fetches and collapses concurrent
// requests for the same URL into one download. Failures are not cached.
type CachingFetcher struct {
	next  Fetcher
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewCachingFetcher wraps next.
func NewCachingFetcher(next Fetcher) *CachingFetcher {
	return &CachingFetcher{next: next, cache: make(map[string][]byte)}
}

// Fetch implements Fetcher. The returned slice is shared and must not be
// modified.
func (c *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.cache[url]
	c.mu.RUnlock()

	if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(url, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.cache[url]
		c.mu.RUnlock()

		if ok {
			return cached, nil
		}

		data, err := c.next.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[url] = data
		c.mu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

// Len returns the number of cached entries.
func (c *CachingFetcher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}

// fetchFirst returns the first candidate that can be fetched, with its URL.
func fetchFirst(ctx context.Context, f Fetcher, urls []string) ([]byte, string, error) {
	var errs []error

	for _, u := range urls {
		data, err := f.Fetch(ctx, u)
		if err == nil {
			return data, u, nil
		}

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%w: no candidate URLs", ErrFetch)
	}

	return nil, "", errors.Join(errs...)
}
