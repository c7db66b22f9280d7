package publish

import (
	"fmt"
	"html"
	"strings"

	"github.com/trendpress/trendpress/internal/summarize"
)

// Inline styles keep the article self-contained: the target platform strips
// stylesheet blocks from submitted drafts.
var (
	containerStyle = inline(map[string]string{
		"max-width":   "100%",
		"margin":      "0 auto",
		"padding":     "15px",
		"font-family": `-apple-system, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`,
		"line-height": "1.8",
		"color":       "#333",
	})
	titleStyle = inline(map[string]string{
		"font-size":   "24px",
		"font-weight": "bold",
		"text-align":  "center",
		"margin":      "20px 0",
		"color":       "#1a1a1a",
	})
	storyStyle = inline(map[string]string{
		"margin-bottom": "35px",
		"padding":       "25px",
		"border":        "1px solid #eaeaea",
		"border-radius": "8px",
		"background":    "#fff",
	})
	storyTitleStyle = inline(map[string]string{
		"font-size":    "20px",
		"font-weight":  "bold",
		"color":        "#1a1a1a",
		"margin":       "0 0 15px",
		"padding-left": "10px",
		"border-left":  "4px solid #07c160",
	})
	storyMetaStyle = inline(map[string]string{
		"font-size": "14px",
		"color":     "#666",
		"margin":    "10px 0",
	})
	storyContentStyle = inline(map[string]string{
		"font-size":     "16px",
		"line-height":   "1.8",
		"color":         "#333",
		"margin":        "15px 0",
		"text-align":    "justify",
		"padding":       "15px",
		"background":    "#f9f9f9",
		"border-radius": "6px",
	})
	storyLinkStyle = inline(map[string]string{
		"font-size":       "14px",
		"color":           "#07c160",
		"text-decoration": "none",
		"display":         "block",
		"margin-top":      "15px",
		"padding-top":     "15px",
		"border-top":      "1px dashed #eaeaea",
	})
)

func inline(styles map[string]string) string {
	parts := make([]string, 0, len(styles))
	for key, value := range styles {
		parts = append(parts, key+": "+value)
	}
	// Deterministic order for stable output.
	sortStrings(parts)
	return strings.Join(parts, "; ")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// RenderHTML builds the inline-styled article body for a draft.
func RenderHTML(draft *summarize.Draft, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<div style="%s">`, containerStyle)
	fmt.Fprintf(&b, `<div style="%s">%s</div>`, titleStyle, html.EscapeString(title))

	for _, story := range draft.Stories {
		fmt.Fprintf(&b, `<div style="%s">`, storyStyle)
		fmt.Fprintf(&b, `<div style="%s">%s</div>`, storyTitleStyle, html.EscapeString(story.Description))
		if story.DatePosted != "" {
			fmt.Fprintf(&b, `<div style="%s">Posted: %s</div>`, storyMetaStyle, html.EscapeString(story.DatePosted))
		}
		fmt.Fprintf(&b, `<div style="%s">%s</div>`, storyContentStyle, html.EscapeString(story.Content))
		fmt.Fprintf(&b, `<div style="%s">Source: %s</div>`, storyLinkStyle, html.EscapeString(story.Link))
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}
