package batch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.wav":
			_, _ = w.Write([]byte("RIFFdata"))
		case "/empty.wav":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := srv.Client()
	t.Cleanup(client.CloseIdleConnections)

	f := HTTPFetcher{Client: client}

	data, err := f.Fetch(context.Background(), srv.URL+"/ok.wav")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFdata"), data)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.wav")
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(context.Background(), srv.URL+"/empty.wav")
	require.ErrorIs(t, err, ErrFetch)

	_, err = HTTPFetcher{Client: client, MaxBytes: 4}.Fetch(context.Background(), srv.URL+"/ok.wav")
	require.ErrorIs(t, err, ErrFetch)
}

type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	data  map[string][]byte
}

func newCountingFetcher(data map[string][]byte) *countingFetcher {
	return &countingFetcher{calls: make(map[string]int), data: data}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, ok := f.data[url]
	if !ok {
		return nil, errors.Join(ErrFetch, errors.New(url+": not found"))
	}

	return d, nil
}

func (f *countingFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[url]
}

func TestCachingFetcher(t *testing.T) {
	next := newCountingFetcher(map[string][]byte{"a": []byte("A")})
	c := NewCachingFetcher(next)

	for range 3 {
		data, err := c.Fetch(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("A"), data)
	}

	assert.Equal(t, 1, next.count("a"))
	assert.Equal(t, 1, c.Len())

	for range 2 {
		_, err := c.Fetch(context.Background(), "b")
		require.ErrorIs(t, err, ErrFetch)
	}

	assert.Equal(t, 2, next.count("b"), "failures are not cached")
}

func TestFetchFirst(t *testing.T) {
	next := newCountingFetcher(map[string][]byte{"x.pcm": []byte("PCM")})

	data, url, err := fetchFirst(context.Background(), next, []string{"x.wav", "x.pcm"})
	require.NoError(t, err)
	assert.Equal(t, "x.pcm", url)
	assert.Equal(t, []byte("PCM"), data)

	_, _, err = fetchFirst(context.Background(), next, []string{"y.wav", "y.pcm"})
	require.ErrorIs(t, err, ErrFetch)

	_, _, err = fetchFirst(context.Background(), next, nil)
	require.ErrorIs(t, err, ErrFetch)
}
