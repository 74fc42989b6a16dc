// Package fetcher wraps an HTTP client with the retry behavior and base
// headers the listing endpoints expect.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// Fetcher performs HTTP GETs with retry logic and per-request extra headers.
//
// Transient network failures and 5xx responses are retried with exponential
// backoff; retry policy lives here, not in the callers.
type Fetcher struct {
	client    *retryablehttp.Client
	userAgent string
}

// Options configures the Fetcher behavior.
type Options struct {
	// UserAgent sets the User-Agent header for requests
	UserAgent string
	// MaxRetries sets the maximum number of retry attempts
	MaxRetries int
	// RetryWaitMin is the minimum time to wait between retries
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum time to wait between retries
	RetryWaitMax time.Duration
}

// DefaultOptions returns sensible default options for the Fetcher.
func DefaultOptions() Options {
	return Options{
		UserAgent:    "Mozilla/5.0",
		MaxRetries:   3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
	}
}

// New creates a new Fetcher with the given options.
func New(opts Options) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.MaxRetries
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	client.Logger = nil // Disable default logging

	return &Fetcher{
		client:    client,
		userAgent: opts.UserAgent,
	}
}

// Fetch downloads the given URL and returns the response body as text.
//
// The extra headers, if any, are set on top of the base User-Agent and
// Accept-Language headers; continuation endpoints require client
// identification headers that differ per request.
//
// Any status outside the 2xx range is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	return string(body), nil
}
