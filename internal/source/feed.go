package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	feedFetchTimeout = 30 * time.Second
	feedUserAgent    = "Mozilla/5.0 (compatible; trendpress/1.0)"
)

// FeedSource fetches items from RSS/Atom feeds.
type FeedSource struct {
	feeds []string
}

// NewFeeds creates an RSS/Atom source. At least one feed URL is required.
func NewFeeds(feeds []string) (*FeedSource, error) {
	if len(feeds) == 0 {
		return nil, errors.New("feeds: at least one feed URL is required")
	}
	return &FeedSource{feeds: feeds}, nil
}

// Fetch returns items published after since from every feed. A failing feed
// is skipped; its error is joined into the returned error while items from
// the remaining feeds are still returned.
func (fs *FeedSource) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		items []Item
		errs  []error
	)
	for _, feedURL := range fs.feeds {
		feedItems, err := fetchFeed(ctx, feedURL, since)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, feedItems...)
	}

	return items, errors.Join(errs...)
}

// feedTransport injects a User-Agent header into every request.
type feedTransport struct {
	base http.RoundTripper
}

func (t *feedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", feedUserAgent)
	return t.base.RoundTrip(req)
}

func fetchFeed(ctx context.Context, feedURL string, since time.Time) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{
		Timeout:   feedFetchTimeout,
		Transport: &feedTransport{base: http.DefaultTransport},
	}
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feeds: fetch %s: %w", feedURL, err)
	}

	return itemsFromFeed(feed, since), nil
}

func itemsFromFeed(feed *gofeed.Feed, since time.Time) []Item {
	var items []Item
	for _, entry := range feed.Items {
		postedAt := entryPublishedTime(entry)
		if postedAt.IsZero() || postedAt.Before(since) {
			continue
		}
		if entry.Link == "" {
			continue
		}

		items = append(items, Item{
			Headline:   entry.Title,
			Content:    entryText(entry),
			Link:       entry.Link,
			DatePosted: postedAt.UTC().Format(time.RFC3339),
		})
	}
	return items
}

func entryPublishedTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}

func entryText(entry *gofeed.Item) string {
	raw := entry.Content
	if raw == "" {
		raw = entry.Description
	}
	return StripHTML(raw)
}
