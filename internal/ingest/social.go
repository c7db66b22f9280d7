package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trendpress/trendpress/internal/source"
)

// SocialTask is the fast cycle: pick one account via the rotation cursor,
// fetch its recent posts, and append them to the pending batch. One account
// per cycle keeps each poll inside the API's rate budget; the cursor
// spreads polling fairly across accounts.
type SocialTask struct {
	store    PendingStore
	fetcher  SocialFetcher
	accounts []string
	lookback time.Duration
	notifier Notifier
	log      *logrus.Logger
}

// NewSocialTask wires a social ingestion cycle. notifier may be nil.
func NewSocialTask(store PendingStore, fetcher SocialFetcher, accounts []string, lookback time.Duration, notifier Notifier, log *logrus.Logger) *SocialTask {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logrus.New()
	}
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &SocialTask{
		store:    store,
		fetcher:  fetcher,
		accounts: accounts,
		lookback: lookback,
		notifier: notifier,
		log:      log,
	}
}

// Run executes one cycle. A fetch failure aborts only this cycle: the
// cursor has already advanced, so the next cycle moves on to the next
// account. An empty account list or zero eligible posts is a successful
// no-op.
func (t *SocialTask) Run(ctx context.Context) error {
	account, ok, err := t.store.NextSource(ctx, t.accounts)
	if err != nil {
		return fmt.Errorf("advance rotation cursor: %w", err)
	}
	if !ok {
		t.log.Debug("social: no accounts configured")
		return nil
	}

	username := source.Username(account)
	if username == "" {
		t.log.WithField("account", account).Warn("social: account URL has no handle, skipping")
		return nil
	}

	since := time.Now().Add(-t.lookback)
	items, err := t.fetcher.FetchUser(ctx, username, since)
	if err != nil {
		t.notifier.Notify(ctx, "Social fetch failed", fmt.Sprintf("account: %s\n%v", username, err))
		return fmt.Errorf("fetch @%s: %w", username, err)
	}

	if len(items) == 0 {
		t.log.WithField("account", username).Info("social: no new posts")
		t.notifier.Notify(ctx, "Social fetch", fmt.Sprintf("account: %s\nno new posts", username))
		return nil
	}

	if err := t.store.AppendItems(ctx, items); err != nil {
		return fmt.Errorf("append items from @%s: %w", username, err)
	}

	t.log.WithFields(logrus.Fields{"account": username, "items": len(items)}).
		Info("social: appended posts")
	t.notifier.Notify(ctx, "Social fetch succeeded", fmt.Sprintf("account: %s\nfetched %d posts", username, len(items)))
	return nil
}
