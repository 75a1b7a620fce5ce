// Package fetch provides the HTTP transport the corpus analyzer uses to
// pull competitor pages. Callers may substitute their own Fetcher.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Page is the raw result of fetching one URL.
type Page struct {
	URL          string
	HTML         string
	LastModified string // Last-Modified header, if the server sent one
}

// Fetcher retrieves the HTML of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// HTTPFetcher fetches pages with a bounded timeout and retries with
// exponential backoff on transport failures and 5xx responses.
type HTTPFetcher struct {
	client     *http.Client
	maxRetries int
	backoff    time.Duration
	userAgent  string
	maxBody    int64
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
		userAgent:  "contentiq/1.0 (+https://github.com/contentiq/contentiq)",
		maxBody:    5 << 20,
	}
}

// Fetch retrieves a page. Client errors (4xx) fail immediately; transport
// failures and server errors are retried up to maxRetries times.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.backoff * time.Duration(1<<(attempt-1))
			slog.Debug("retrying fetch", "url", url, "attempt", attempt, "delay_ms", delay.Milliseconds())
			select {
			case <-ctx.Done():
				return Page{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		page, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return Page{}, err
		}
		lastErr = err
	}

	return Page{}, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (Page, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return Page{}, true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		return Page{}, false, fmt.Errorf("client error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return Page{}, true, fmt.Errorf("read body: %w", err)
	}

	return Page{
		URL:          url,
		HTML:         string(body),
		LastModified: resp.Header.Get("Last-Modified"),
	}, false, nil
}
