package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	socialFetchTimeout = 30 * time.Second
	statusURLFormat    = "https://x.com/i/status/%s"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SocialClient fetches recent posts for an account via a tweet search API.
type SocialClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSocial creates a social fetch client. baseURL overrides the API
// endpoint, mainly for tests.
func NewSocial(baseURL, apiKey string) (*SocialClient, error) {
	if baseURL == "" {
		return nil, errors.New("social: api base is required")
	}
	return &SocialClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: socialFetchTimeout},
	}, nil
}

// FetchUser returns the account's posts published after since, normalized
// to Items. Posts outside the window are discarded silently.
func (c *SocialClient) FetchUser(ctx context.Context, username string, since time.Time) ([]Item, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	query := url.Values{}
	query.Set("query", "from:"+username)

	reqURL := c.baseURL + "/twitter/tweet/advanced_search?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("social: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social: fetch @%s: %w", username, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("social: @%s: status %d", username, resp.StatusCode)
	}

	var result tweetSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("social: decode @%s: %w", username, err)
	}

	return itemsFromTweets(result.Data, since), nil
}

func itemsFromTweets(tweets []tweet, since time.Time) []Item {
	var items []Item
	for _, t := range tweets {
		postedAt, ok := parseTweetTime(t.CreatedAt)
		if ok && postedAt.Before(since) {
			continue
		}

		datePosted := t.CreatedAt
		if datePosted == "" {
			datePosted = since.UTC().Format(time.RFC3339)
		}

		item := Item{
			Headline:   FirstLine(t.Text),
			Content:    t.Text,
			Link:       fmt.Sprintf(statusURLFormat, t.ID),
			DatePosted: datePosted,
			Language:   t.Lang,
		}

		if t.Author != nil {
			username := t.Author.UserName
			if username == "" {
				username = t.Author.ScreenName
			}
			item.Author = &Author{
				Username:     username,
				Name:         t.Author.Name,
				ProfileImage: t.Author.ProfilePicture,
				Verified:     t.Author.IsVerified || t.Author.IsBlueVerified,
			}
		}

		item.Metrics = &Metrics{
			Retweets:  t.RetweetCount,
			Replies:   t.ReplyCount,
			Likes:     t.LikeCount,
			Quotes:    t.QuoteCount,
			Views:     t.ViewCount,
			Bookmarks: t.BookmarkCount,
		}

		for _, m := range t.ExtendedEntities.Media {
			item.Media = append(item.Media, Media{
				Type:       m.Type,
				URL:        m.MediaURLHTTPS,
				PreviewURL: m.URL,
			})
		}

		if t.QuotedTweet != nil {
			quoted := &Quoted{
				ID:      t.QuotedTweet.ID,
				Content: t.QuotedTweet.Text,
			}
			if t.QuotedTweet.Author != nil {
				quoted.Author = t.QuotedTweet.Author.UserName
			}
			item.Quoted = quoted
		}

		items = append(items, item)
	}
	return items
}

// parseTweetTime handles the two timestamp formats the search API returns.
func parseTweetTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RubyDate, value); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

type tweetSearchResponse struct {
	Data []tweet         `json:"data"`
	Meta tweetSearchMeta `json:"meta"`
}

type tweetSearchMeta struct {
	ResultCount int `json:"result_count"`
}

type tweet struct {
	ID               string        `json:"id"`
	Text             string        `json:"text"`
	CreatedAt        string        `json:"created_at"`
	Lang             string        `json:"lang"`
	Author           *tweetAuthor  `json:"author"`
	RetweetCount     int           `json:"retweetCount"`
	ReplyCount       int           `json:"replyCount"`
	LikeCount        int           `json:"likeCount"`
	QuoteCount       int           `json:"quoteCount"`
	ViewCount        int           `json:"viewCount"`
	BookmarkCount    int           `json:"bookmarkCount"`
	ExtendedEntities tweetEntities `json:"extendedEntities"`
	QuotedTweet      *quotedTweet  `json:"quoted_tweet"`
}

type tweetAuthor struct {
	UserName       string `json:"userName"`
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
	IsVerified     bool   `json:"isVerified"`
	IsBlueVerified bool   `json:"isBlueVerified"`
}

type tweetEntities struct {
	Media []tweetMedia `json:"media"`
}

type tweetMedia struct {
	Type          string `json:"type"`
	MediaURLHTTPS string `json:"media_url_https"`
	URL           string `json:"url"`
}

type quotedTweet struct {
	ID     string       `json:"id"`
	Text   string       `json:"text"`
	Author *tweetAuthor `json:"author"`
}
