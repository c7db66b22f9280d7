package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/trendpress/trendpress/internal/source"
	"github.com/trendpress/trendpress/internal/summarize"
)

// fakeStore is an in-memory PendingStore with the same dedup and rotation
// semantics as the sqlite implementation.
type fakeStore struct {
	mu         sync.Mutex
	items      map[string]source.Item
	cursor     string
	hasCursor  bool
	appendErr  error
	drainErr   error
	drainCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]source.Item)}
}

func (s *fakeStore) AppendItems(_ context.Context, items []source.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		s.items[item.Link] = item
	}
	return nil
}

func (s *fakeStore) DrainAll(_ context.Context) ([]source.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainCalls++
	if s.drainErr != nil {
		return nil, s.drainErr
	}
	out := make([]source.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	s.items = make(map[string]source.Item)
	return out, nil
}

func (s *fakeStore) NextSource(_ context.Context, sources []string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sources) == 0 {
		return "", false, nil
	}
	lastIndex := -1
	if s.hasCursor {
		for i, src := range sources {
			if src == s.cursor {
				lastIndex = i
				break
			}
		}
	}
	next := sources[(lastIndex+1)%len(sources)]
	s.cursor = next
	s.hasCursor = true
	return next, true, nil
}

func (s *fakeStore) pending() []source.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]source.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

func testPosts() []source.Item {
	return []source.Item{
		{Headline: "post one", Content: "body one", Link: "https://x.com/i/status/1", DatePosted: "2026-08-31"},
		{Headline: "post two", Content: "body two", Link: "https://x.com/i/status/2", DatePosted: "2026-08-31"},
	}
}

type fakeFetcher struct {
	items []source.Item
	err   error
	calls []string
}

func (f *fakeFetcher) FetchUser(_ context.Context, username string, _ time.Time) ([]source.Item, error) {
	f.calls = append(f.calls, username)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeExtractor struct {
	perPage map[string][]source.Item
	failing map[string]bool
}

func (f *fakeExtractor) Extract(_ context.Context, pageURL string, _ time.Time) ([]source.Item, error) {
	if f.failing[pageURL] {
		return nil, errors.New("extract failed: " + pageURL)
	}
	return f.perPage[pageURL], nil
}

type fakeFeeds struct {
	items []source.Item
	err   error
}

func (f *fakeFeeds) Fetch(context.Context, time.Time) ([]source.Item, error) {
	return f.items, f.err
}

type fakeDrafter struct {
	err  error
	got  []source.Item
	seen bool
}

func (f *fakeDrafter) Draft(_ context.Context, items []source.Item) (*summarize.Draft, error) {
	f.seen = true
	f.got = items
	if f.err != nil {
		return nil, f.err
	}
	stories := make([]summarize.Story, 0, len(items))
	for _, item := range items {
		stories = append(stories, summarize.Story{
			Link:        item.Link,
			Description: item.Headline,
			DatePosted:  item.DatePosted,
			Content:     item.Content,
		})
	}
	return &summarize.Draft{Stories: stories}, nil
}

type fakePublisher struct {
	err   error
	draft *summarize.Draft
}

func (f *fakePublisher) Publish(_ context.Context, draft *summarize.Draft) error {
	f.draft = draft
	return f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (f *fakeNotifier) Notify(_ context.Context, title, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
}

func (f *fakeNotifier) sent(title string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.titles {
		if t == title {
			return true
		}
	}
	return false
}
