// Package publish renders drafts and submits them to the publishing platform.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const publishTimeout = 30 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the publishing platform's draft API. The platform signals
// errors inside a 200 response via errcode, so both transport status and
// errcode are checked.
type Client struct {
	baseURL   string
	appID     string
	appSecret string
	client    *http.Client
}

// NewClient creates a platform client.
func NewClient(baseURL, appID, appSecret string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("publish: api base is required")
	}
	if appID == "" || appSecret == "" {
		return nil, errors.New("publish: app id and secret are required")
	}
	return &Client{
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		client:    &http.Client{Timeout: publishTimeout},
	}, nil
}

// Article is one entry of a platform draft submission.
type Article struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Digest          string `json:"digest"`
	Content         string `json:"content"`
	ThumbMediaID    string `json:"thumb_media_id"`
	NeedOpenComment int    `json:"need_open_comment"`
	OnlyFansComment int    `json:"only_fans_can_comment"`
}

// AddDraft uploads one article as a platform draft.
func (c *Client) AddDraft(ctx context.Context, article Article) error {
	if ctx == nil {
		ctx = context.Background()
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(draftRequest{Articles: []Article{article}})
	if err != nil {
		return fmt.Errorf("publish: marshal draft: %w", err)
	}

	reqURL := c.baseURL + "/cgi-bin/draft/add?access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("publish: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish: add draft: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish: add draft: status %d", resp.StatusCode)
	}

	var result draftResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("publish: decode draft response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("publish: platform error %d: %s", result.ErrCode, result.ErrMsg)
	}

	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("grant_type", "client_credential")
	query.Set("appid", c.appID)
	query.Set("secret", c.appSecret)

	reqURL := c.baseURL + "/cgi-bin/token?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("publish: create token request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish: fetch access token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("publish: access token: status %d", resp.StatusCode)
	}

	var result tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("publish: decode token response: %w", err)
	}
	if result.ErrCode != 0 {
		return "", fmt.Errorf("publish: token error %d: %s", result.ErrCode, result.ErrMsg)
	}
	if result.AccessToken == "" {
		return "", errors.New("publish: empty access token")
	}

	return result.AccessToken, nil
}

type draftRequest struct {
	Articles []Article `json:"articles"`
}

type draftResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
	MediaID string `json:"media_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}
