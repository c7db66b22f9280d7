package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/trendpress/trendpress/internal/source"
)

const (
	llmTimeout = 2 * time.Minute

	systemPrompt = `You will receive a list of AI-related stories and posts. Return only JSON, no other text:
{"interestingTweetsOrStories": [{"story_or_tweet_link": "...", "description": "...", "date_posted": "...", "content": "..."}]}`

	userPromptHeader = `Curate and polish these stories into a JSON draft. For each story provide
'story_or_tweet_link', 'description' (a short description), 'date_posted', and 'content'
(a readable, detailed write-up of at least 300 words that does not read machine-generated).
Return every relevant story as its own object. Here is the raw story list:

`
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LLMDrafter drafts via an OpenAI-compatible chat completions API.
type LLMDrafter struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewLLM creates an LLM drafter.
func NewLLM(endpoint, apiKey, model string) (*LLMDrafter, error) {
	if endpoint == "" {
		return nil, errors.New("llm: endpoint is required")
	}
	if model == "" {
		return nil, errors.New("llm: model is required")
	}
	return &LLMDrafter{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: llmTimeout},
	}, nil
}

// Draft serializes the batch, calls the model, and parses the returned
// draft. The model's reply may wrap the JSON object in prose; the first
// balanced object is extracted. A draft with zero stories is an error.
func (l *LLMDrafter) Draft(ctx context.Context, items []source.Item) (*Draft, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(items) == 0 {
		return nil, errors.New("llm: no items to draft")
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal items: %w", err)
	}

	content, err := l.complete(ctx, string(rawItems))
	if err != nil {
		return nil, err
	}

	object, err := ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("llm: response: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(object), &draft); err != nil {
		return nil, fmt.Errorf("llm: parse draft: %w", err)
	}
	if len(draft.Stories) == 0 {
		return nil, errors.New("llm: draft contains no stories")
	}

	return &draft, nil
}

func (l *LLMDrafter) complete(ctx context.Context, rawStories string) (string, error) {
	reqBody := chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptHeader + rawStories},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.apiKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: api returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("llm: empty choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
