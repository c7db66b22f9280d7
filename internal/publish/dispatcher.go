package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/trendpress/trendpress/internal/summarize"
)

// Options hold the platform-specific article constants. They live in config
// so the pipeline itself stays free of publish conventions.
type Options struct {
	TitlePrefix  string
	Author       string
	ThumbMediaID string
	DigestLength int
	Location     *time.Location
}

// Dispatcher renders a draft and submits it to the platform.
type Dispatcher struct {
	client *Client
	opts   Options
}

// NewDispatcher creates a dispatcher around a platform client.
func NewDispatcher(client *Client, opts Options) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Dispatcher{client: client, opts: opts}
}

// Publish renders the draft as an article and uploads it.
func (d *Dispatcher) Publish(ctx context.Context, draft *summarize.Draft) error {
	date := time.Now().In(d.opts.Location).Format("2006-01-02")
	title := fmt.Sprintf("%s - %s", d.opts.TitlePrefix, date)

	digest := fmt.Sprintf("%s: %d stories", title, len(draft.Stories))
	digest = firstNRunes(digest, d.opts.DigestLength)

	article := Article{
		Title:           title,
		Author:          d.opts.Author,
		Digest:          digest,
		Content:         RenderHTML(draft, title),
		ThumbMediaID:    d.opts.ThumbMediaID,
		NeedOpenComment: 1,
	}

	return d.client.AddDraft(ctx, article)
}

func firstNRunes(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
