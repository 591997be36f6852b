package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(FetcherParams{Timeout: 5 * time.Second, UserAgent: "test-agent"})
	res, err := fetcher.Fetch(context.Background(), FetchRequest{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, rssFixture, string(res.Body))
	assert.Equal(t, `"v1"`, res.ETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", res.LastModified)
	assert.False(t, res.NotModified)
}

func TestHTTPFetcher_Fetch_Conditional(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(FetcherParams{})

	res, err := fetcher.Fetch(context.Background(), FetchRequest{URL: server.URL, ETag: `"v1"`, LastModified: "yesterday"})
	require.NoError(t, err)
	assert.True(t, res.NotModified)
	assert.Empty(t, res.Body)
	assert.Equal(t, `"v1"`, res.ETag, "hints kept on 304")
	assert.Equal(t, "yesterday", res.LastModified)

	res, err = fetcher.Fetch(context.Background(), FetchRequest{URL: server.URL})
	require.NoError(t, err)
	assert.False(t, res.NotModified)
	assert.NotEmpty(t, res.Body)
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewHTTPFetcher(FetcherParams{}).Fetch(context.Background(), FetchRequest{URL: server.URL})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("timeout", func(t *testing.T) {
		done := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()
		defer close(done)

		fetcher := NewHTTPFetcher(FetcherParams{Timeout: 50 * time.Millisecond})
		st := time.Now()
		_, err := fetcher.Fetch(context.Background(), FetchRequest{URL: server.URL})
		require.Error(t, err)
		assert.Less(t, time.Since(st), time.Second)
	})

	t.Run("body too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
		}))
		defer server.Close()

		_, err := NewHTTPFetcher(FetcherParams{MaxBodySize: 1024}).Fetch(context.Background(), FetchRequest{URL: server.URL})
		require.Error(t, err)
		assert.ErrorIs(t, err, errBodyTooLarge)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := NewHTTPFetcher(FetcherParams{}).Fetch(context.Background(), FetchRequest{URL: "http://127.0.0.1:1/feed"})
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPFetcher(FetcherParams{}).Fetch(ctx, FetchRequest{URL: "http://example.com/feed"})
		require.Error(t, err)
	})
}
