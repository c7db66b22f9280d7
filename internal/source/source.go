// Package source fetches content items from social, scraped, and feed sources.
package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Item is one piece of ingestible content. Link is the deduplication key:
// two items with the same link are the same logical item.
type Item struct {
	Headline   string  `json:"headline"`
	Content    string  `json:"content"`
	Link       string  `json:"link"`
	DatePosted string  `json:"date_posted"`
	Author     *Author `json:"author,omitempty"`
	Metrics    *Metrics `json:"metrics,omitempty"`
	Media      []Media  `json:"media,omitempty"`
	Quoted     *Quoted  `json:"quoted_post,omitempty"`
	Language   string   `json:"language,omitempty"`
}

// Author identifies the account behind a social post.
type Author struct {
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Verified     bool   `json:"verified,omitempty"`
}

// Metrics holds engagement counters for a social post.
type Metrics struct {
	Retweets  int `json:"retweet_count"`
	Replies   int `json:"reply_count"`
	Likes     int `json:"like_count"`
	Quotes    int `json:"quote_count"`
	Views     int `json:"view_count"`
	Bookmarks int `json:"bookmark_count"`
}

// Media is an attachment on a social post.
type Media struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Quoted references a post quoted by another post.
type Quoted struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

var usernameRe = regexp.MustCompile(`x\.com/([^/]+)`)

// Username extracts the account handle from an x.com profile URL.
// Returns "" if the URL does not reference a profile.
func Username(accountURL string) string {
	m := usernameRe.FindStringSubmatch(accountURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsSocial reports whether a source URL points at a social account
// rather than a page to scrape.
func IsSocial(sourceURL string) bool {
	return strings.Contains(sourceURL, "x.com")
}

var whitespaceRe = regexp.MustCompile(`[ \t]{2,}`)

// StripHTML reduces an HTML fragment to plain text.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	text := doc.Text()
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FirstLine returns the text up to the first newline, used as a default headline.
func FirstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}
