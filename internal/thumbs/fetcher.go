package thumbs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultFetchTimeout bounds a single origin fetch, covering connection
// setup, the response headers and the full body read.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves the raw bytes of a source image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches source images over HTTP(S) with a fixed timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher bounded by the given timeout.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the full response body for url. The bytes are returned
// unvalidated; rejecting undecodable content is the normalizer's job.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrFetchTimeout
		}
		return nil, fmt.Errorf("failed to reach origin %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrFetchTimeout
		}
		return nil, fmt.Errorf("failed to read origin response for %q: %w", url, err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
