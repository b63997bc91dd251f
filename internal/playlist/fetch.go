package playlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxBodyBytes        = 16 << 20 // playlists are text; cap runaway bodies
)

// Fetcher downloads playlist text over HTTP. Fetches are rate limited so
// rapid channel browsing doesn't hammer upstreams.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher with the default timeout and a limit of
// two fetches per second.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: defaultFetchTimeout},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// NewFetcherWithClient creates a Fetcher using the given HTTP client,
// for tests.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	f := NewFetcher()
	f.client = client
	return f
}

// Fetch downloads and returns the playlist body as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("playlist fetch: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("playlist fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playlist fetch: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("playlist fetch: %w", err)
	}
	return string(body), nil
}
