// Package summarize turns a raw item batch into a structured draft.
package summarize

import (
	"context"
	"errors"

	"github.com/trendpress/trendpress/internal/source"
)

// Story is one polished entry of a draft.
type Story struct {
	Link        string `json:"story_or_tweet_link"`
	Description string `json:"description"`
	DatePosted  string `json:"date_posted"`
	Content     string `json:"content"`
}

// Draft is the structured result of summarizing an item batch.
type Draft struct {
	Stories []Story `json:"interestingTweetsOrStories"`
}

// Drafter produces a draft from a batch of items.
type Drafter interface {
	Draft(ctx context.Context, items []source.Item) (*Draft, error)
}

// PassthroughDrafter builds the draft directly from the items, without a
// language model. Used when no LLM is configured.
type PassthroughDrafter struct{}

// Draft maps each item to one story verbatim.
func (p *PassthroughDrafter) Draft(_ context.Context, items []source.Item) (*Draft, error) {
	if len(items) == 0 {
		return nil, errors.New("passthrough: no items to draft")
	}

	draft := &Draft{Stories: make([]Story, 0, len(items))}
	for _, item := range items {
		content := item.Content
		if content == "" {
			content = item.Headline
		}
		draft.Stories = append(draft.Stories, Story{
			Link:        item.Link,
			Description: item.Headline,
			DatePosted:  item.DatePosted,
			Content:     content,
		})
	}
	return draft, nil
}
