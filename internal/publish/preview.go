package publish

import (
	"fmt"
	"io"

	"github.com/trendpress/trendpress/internal/source"
)

// WritePreview renders a pending item batch as Markdown, for inspecting
// what the next daily run will aggregate without draining the store.
func WritePreview(w io.Writer, items []source.Item) error {
	fmt.Fprintf(w, "# trendpress pending batch\n\n")
	fmt.Fprintf(w, "%d items awaiting aggregation\n\n", len(items))

	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing pending.")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(w, "## %s\n\n", item.Headline)

		if item.Author != nil && item.Author.Username != "" {
			fmt.Fprintf(w, "@%s", item.Author.Username)
			if item.Metrics != nil {
				fmt.Fprintf(w, " (%d likes, %d reposts)", item.Metrics.Likes, item.Metrics.Retweets)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w)
		}

		if item.Content != "" && item.Content != item.Headline {
			fmt.Fprintf(w, "%s\n\n", item.Content)
		}

		if item.Quoted != nil {
			fmt.Fprintf(w, "> %s\n\n", item.Quoted.Content)
		}

		fmt.Fprintf(w, "Posted: %s\n\n", item.DatePosted)
		fmt.Fprintf(w, "[Link](%s)\n\n", item.Link)
	}

	return nil
}
