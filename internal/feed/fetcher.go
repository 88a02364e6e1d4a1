// Package feed fetches syndication feeds and rewrites shortnames in their items.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"github.com/haytac/emojiril/pkg/interfaces"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// GoFeedFetcher implements interfaces.FeedFetcher using gofeed.
type GoFeedFetcher struct {
	clientFactory interfaces.HTTPClientFactory
	proxy         *url.URL
	userAgent     string

	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// NewGoFeedFetcher creates a fetcher that builds clients from clientFactory.
// proxy may be nil.
func NewGoFeedFetcher(clientFactory interfaces.HTTPClientFactory, proxy *url.URL, userAgent string) *GoFeedFetcher {
	return &GoFeedFetcher{
		clientFactory: clientFactory,
		proxy:         proxy,
		userAgent:     userAgent,
		MaxRetries:    defaultMaxRetries,
		InitialDelay:  defaultInitialDelay,
		MaxDelay:      defaultMaxDelay,
	}
}

// Fetch retrieves and parses a feed, retrying transport errors and 5xx
// responses with exponential backoff.
func (f *GoFeedFetcher) Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	httpClient, err := f.clientFactory.GetClient(f.proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to get HTTP client for %s: %w", feedURL, err)
	}

	var lastErr error
	currentDelay := f.InitialDelay

	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Str("feed_url", feedURL).Int("attempt", attempt).Dur("delay", currentDelay).Msg("Retrying fetch after error")
			select {
			case <-time.After(currentDelay):
				currentDelay *= 2
				if currentDelay > f.MaxDelay {
					currentDelay = f.MaxDelay
				}
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch context cancelled during retry backoff for %s: %w", feedURL, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request for %s: %w", feedURL, err)
		}
		if f.userAgent != "" {
			req.Header.Set("User-Agent", f.userAgent)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: failed to fetch feed %s: %w", attempt, feedURL, err)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: failed to fetch feed %s: status %d, body: %s", attempt, feedURL, resp.StatusCode, string(bodyBytes))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}

		parsed, err := gofeed.NewParser().Parse(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("all %d fetch attempts failed for %s: last error: %w", f.MaxRetries+1, feedURL, lastErr)
}
