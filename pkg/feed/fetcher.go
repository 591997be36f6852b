package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaults for the fetcher
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBodySize  = 10 * 1024 * 1024
	DefaultUserAgent    = "feedsync/1.0"
)

// errBodyTooLarge is returned when the feed exceeds the size limit
var errBodyTooLarge = errors.New("feed body too large")

// FetchRequest describes a feed retrieval with optional cache hints
type FetchRequest struct {
	URL          string
	ETag         string
	LastModified string
}

// FetchResult is the raw outcome of a feed retrieval
type FetchResult struct {
	Body         []byte
	ETag         string
	LastModified string
	NotModified  bool
}

// HTTPFetcher retrieves feed documents over HTTP
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// FetcherParams configures HTTPFetcher, zero values are replaced by defaults
type FetcherParams struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
	Client      *http.Client
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(params FetcherParams) *HTTPFetcher {
	if params.Timeout <= 0 {
		params.Timeout = DefaultFetchTimeout
	}
	if params.UserAgent == "" {
		params.UserAgent = DefaultUserAgent
	}
	if params.MaxBodySize <= 0 {
		params.MaxBodySize = DefaultMaxBodySize
	}
	client := params.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPFetcher{
		client:      client,
		timeout:     params.Timeout,
		userAgent:   params.UserAgent,
		maxBodySize: params.MaxBodySize,
	}
}

// Fetch retrieves the feed document. The whole request, body included, is bounded by the fetcher timeout.
// A 304 response to a conditional request returns a result with NotModified set and no body.
func (f *HTTPFetcher) Fetch(ctx context.Context, fr FetchRequest) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fr.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)
	if fr.ETag != "" {
		req.Header.Set("If-None-Match", fr.ETag)
	}
	if fr.LastModified != "" {
		req.Header.Set("If-Modified-Since", fr.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", fr.URL, err)
	}
	defer resp.Body.Close()

	result := &FetchResult{ETag: resp.Header.Get("ETag"), LastModified: resp.Header.Get("Last-Modified")}
	if resp.StatusCode == http.StatusNotModified {
		result.NotModified = true
		// keep the hints we sent if the server didn't repeat them
		if result.ETag == "" {
			result.ETag = fr.ETag
		}
		if result.LastModified == "" {
			result.LastModified = fr.LastModified
		}
		return result, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", fr.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", fr.URL, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("read body of %s: %w (limit %d)", fr.URL, errBodyTooLarge, f.maxBodySize)
	}
	result.Body = body
	return result, nil
}
