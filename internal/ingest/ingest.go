// Package ingest implements the two pipeline cycles: the fast social poll
// and the daily aggregate-and-publish run.
package ingest

import (
	"context"
	"time"

	"github.com/trendpress/trendpress/internal/source"
	"github.com/trendpress/trendpress/internal/summarize"
)

// PendingStore is the durable state shared by the two cycles: the pending
// item batch and the source rotation cursor.
type PendingStore interface {
	AppendItems(ctx context.Context, items []source.Item) error
	DrainAll(ctx context.Context) ([]source.Item, error)
	NextSource(ctx context.Context, sources []string) (string, bool, error)
}

// SocialFetcher returns an account's recent posts.
type SocialFetcher interface {
	FetchUser(ctx context.Context, username string, since time.Time) ([]source.Item, error)
}

// PageExtractor returns structured items extracted from one web page.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string, date time.Time) ([]source.Item, error)
}

// FeedFetcher returns items from configured RSS/Atom feeds.
type FeedFetcher interface {
	Fetch(ctx context.Context, since time.Time) ([]source.Item, error)
}

// Publisher submits a finished draft to the publishing platform.
type Publisher interface {
	Publish(ctx context.Context, draft *summarize.Draft) error
}

// Notifier pushes best-effort operator notifications.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}

// nopNotifier is used when no notifier is configured.
type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, string) {}
