package thumbs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(time.Second)
	body, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	fetcher := NewHTTPFetcher(50 * time.Millisecond)
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	assert.ErrorIs(t, err, ErrFetchTimeout)
}

func TestHTTPFetcherConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	fetcher := NewHTTPFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFetchTimeout)
}

func TestHTTPFetcherInvalidURL(t *testing.T) {
	fetcher := NewHTTPFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), "://not-a-url")

	assert.Error(t, err)
}
