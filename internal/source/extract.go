package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const extractTimeout = 60 * time.Second

// Extractor requests structured extraction of a page's stories from a
// scrape-and-extract API.
type Extractor struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewExtractor creates an extraction client.
func NewExtractor(baseURL, apiKey string) (*Extractor, error) {
	if baseURL == "" {
		return nil, errors.New("extract: api base is required")
	}
	return &Extractor{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: extractTimeout},
	}, nil
}

// Extract asks the API for items published on date at pageURL. The prompt
// pins the expected shape; the schema keeps the API honest about it.
func (e *Extractor) Extract(ctx context.Context, pageURL string, date time.Time) ([]Item, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reqBody := scrapeRequest{
		URL:     pageURL,
		Formats: []string{"extract"},
		Extract: scrapeExtract{
			Prompt: extractionPrompt(pageURL, date),
			Schema: storiesSchema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("extract: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extract: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract: %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extract: %s: status %d", pageURL, resp.StatusCode)
	}

	var result scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("extract: decode %s: %w", pageURL, err)
	}

	if !result.Success {
		return nil, fmt.Errorf("extract: %s: %s", pageURL, result.Error)
	}

	items := result.Data.Extract.Stories
	for i := range items {
		items[i].Content = StripHTML(items[i].Content)
		if items[i].Headline == "" {
			items[i].Headline = FirstLine(items[i].Content)
		}
	}
	return items, nil
}

func extractionPrompt(pageURL string, date time.Time) string {
	day := date.Format("2006-01-02")
	return fmt.Sprintf(`Return only today's AI or LLM related story or post headlines and links in JSON format from the page content.
They must be posted today, %s. The format should be:
{"stories": [{"headline": "...", "content": "...", "link": "...", "date_posted": "YYYY-MM-DD"}, ...]}
If there are no AI or LLM stories from today, return {"stories": []}.
The source link is %s. If a story link is not absolute, prepend %s to make it absolute.
Return only pure JSON in the specified format (no extra text, no markdown).
The content should summarize the full text and its main point in about 500 words.`, day, pageURL, pageURL)
}

// storiesSchema mirrors the JSON shape named in the prompt.
var storiesSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"stories": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"headline":    map[string]any{"type": "string"},
					"content":     map[string]any{"type": "string"},
					"link":        map[string]any{"type": "string"},
					"date_posted": map[string]any{"type": "string"},
				},
				"required": []string{"headline", "link"},
			},
		},
	},
	"required": []string{"stories"},
}

type scrapeRequest struct {
	URL     string        `json:"url"`
	Formats []string      `json:"formats"`
	Extract scrapeExtract `json:"extract"`
}

type scrapeExtract struct {
	Prompt string         `json:"prompt"`
	Schema map[string]any `json:"schema"`
}

type scrapeResponse struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Data    scrapeData `json:"data"`
}

type scrapeData struct {
	Extract extractPayload `json:"extract"`
}

type extractPayload struct {
	Stories []Item `json:"stories"`
}
