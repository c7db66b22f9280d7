package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trendpress/trendpress/internal/source"
	"github.com/trendpress/trendpress/internal/summarize"
)

// ErrDegraded marks a slow cycle that published successfully but lost at
// least one web source along the way.
var ErrDegraded = errors.New("cycle completed with degraded sources")

// Aggregator is the slow cycle: drain the pending social batch, fetch the
// web sources, summarize the combined batch, and publish the draft.
//
// Ordering within a cycle is strict: drain happens before the web fetch is
// incorporated, and both happen before summarization, so no item is
// summarized twice and none is silently dropped.
//
// If drafting or publishing fails after the drain, the drained social items
// are re-appended to the store so the next daily run retries them. Link
// dedup makes the re-append safe against posts fetched again in between.
type Aggregator struct {
	store    PendingStore
	web      *WebTask
	drafter  summarize.Drafter
	disp     Publisher
	notifier Notifier
	log      *logrus.Logger
}

// NewAggregator wires the slow cycle. notifier may be nil.
func NewAggregator(store PendingStore, web *WebTask, drafter summarize.Drafter, disp Publisher, notifier Notifier, log *logrus.Logger) *Aggregator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Aggregator{
		store:    store,
		web:      web,
		drafter:  drafter,
		disp:     disp,
		notifier: notifier,
		log:      log,
	}
}

// Run executes one slow cycle. An empty combined batch is a successful
// "no items today" outcome. A nil error or ErrDegraded means a draft was
// published (or correctly skipped); any other error means the cycle failed
// and the drained social items were re-queued.
func (a *Aggregator) Run(ctx context.Context) error {
	social, err := a.store.DrainAll(ctx)
	if err != nil {
		return fmt.Errorf("drain pending batch: %w", err)
	}

	var (
		webItems []source.Item
		webErr   error
	)
	if a.web != nil {
		webItems, webErr = a.web.Run(ctx)
	}

	// Social items first: buffered posts lead the article.
	batch := make([]source.Item, 0, len(social)+len(webItems))
	batch = append(batch, social...)
	batch = append(batch, webItems...)

	a.log.WithFields(logrus.Fields{"social": len(social), "web": len(webItems)}).
		Info("aggregate: combined batch")

	if len(batch) == 0 {
		a.log.Info("aggregate: no items today")
		a.notifier.Notify(ctx, "Daily draft", "no items today")
		return a.degradedOrNil(webErr)
	}

	draft, err := a.drafter.Draft(ctx, batch)
	if err != nil {
		a.requeue(ctx, social)
		a.notifier.Notify(ctx, "Draft generation failed", err.Error())
		return fmt.Errorf("generate draft: %w", err)
	}

	if err := a.disp.Publish(ctx, draft); err != nil {
		a.requeue(ctx, social)
		a.notifier.Notify(ctx, "Draft publish failed", err.Error())
		return fmt.Errorf("publish draft: %w", err)
	}

	a.log.WithField("stories", len(draft.Stories)).Info("aggregate: draft published")
	a.notifier.Notify(ctx, "Draft published", fmt.Sprintf("%d stories", len(draft.Stories)))
	return a.degradedOrNil(webErr)
}

func (a *Aggregator) degradedOrNil(webErr error) error {
	if webErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDegraded, webErr)
}

// requeue puts drained social items back so the next cycle retries them.
// Best-effort: a failing re-append is logged, the original failure wins.
func (a *Aggregator) requeue(ctx context.Context, items []source.Item) {
	if len(items) == 0 {
		return
	}
	if err := a.store.AppendItems(ctx, items); err != nil {
		a.log.WithFields(logrus.Fields{"items": len(items), "error": err.Error()}).
			Error("aggregate: requeue after failure lost items")
	}
}
