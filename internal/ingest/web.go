package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trendpress/trendpress/internal/source"
)

// WebTask collects items from the non-social sources: structured extraction
// per configured page, plus any RSS/Atom feeds. A failing source is skipped
// so one bad page cannot starve the daily run; its error is joined into the
// returned error to mark the run as degraded.
type WebTask struct {
	extractor PageExtractor
	pages     []string
	feeds     FeedFetcher
	lookback  time.Duration
	log       *logrus.Logger
}

// NewWebTask wires a web ingestion step. extractor and feeds may each be
// nil when that source kind is unconfigured.
func NewWebTask(extractor PageExtractor, pages []string, feeds FeedFetcher, lookback time.Duration, log *logrus.Logger) *WebTask {
	if log == nil {
		log = logrus.New()
	}
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &WebTask{
		extractor: extractor,
		pages:     pages,
		feeds:     feeds,
		lookback:  lookback,
		log:       log,
	}
}

// Run fetches all web sources sequentially. Items from succeeding sources
// are always returned; a non-nil error means at least one source failed.
func (t *WebTask) Run(ctx context.Context) ([]source.Item, error) {
	var (
		items []source.Item
		errs  []error
	)

	now := time.Now()

	if t.extractor != nil {
		for _, page := range t.pages {
			pageItems, err := t.extractor.Extract(ctx, page, now)
			if err != nil {
				t.log.WithFields(logrus.Fields{"page": page, "error": err.Error()}).
					Warn("web: extraction failed, skipping source")
				errs = append(errs, err)
				continue
			}
			t.log.WithFields(logrus.Fields{"page": page, "items": len(pageItems)}).
				Info("web: extracted items")
			items = append(items, pageItems...)
		}
	}

	if t.feeds != nil {
		feedItems, err := t.feeds.Fetch(ctx, now.Add(-t.lookback))
		if err != nil {
			t.log.WithField("error", err.Error()).Warn("web: feed fetch degraded")
			errs = append(errs, err)
		}
		items = append(items, feedItems...)
	}

	return items, errors.Join(errs...)
}
