package summarize

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/trendpress/trendpress/internal/source"
)

func testItems() []source.Item {
	return []source.Item{
		{
			Headline:   "New model released",
			Content:    "Full announcement text.",
			Link:       "https://x.com/i/status/100",
			DatePosted: "2026-08-31",
		},
	}
}

func chatReply(content string) string {
	escaped := strings.ReplaceAll(content, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return fmt.Sprintf(`{"choices": [{"message": {"role": "assistant", "content": "%s"}}]}`, escaped)
}

func TestLLMDraftParsesProseWrappedJSON(t *testing.T) {
	draftJSON := `{"interestingTweetsOrStories": [{"story_or_tweet_link": "https://x.com/i/status/100", "description": "New model", "date_posted": "2026-08-31", "content": "A detailed write-up."}]}`

	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte(chatReply("Sure, here is the draft:\n" + draftJSON + "\nAnything else?")))
	}))
	defer srv.Close()

	drafter, err := NewLLM(srv.URL, "llm-key", "test-model")
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}

	draft, err := drafter.Draft(context.Background(), testItems())
	if err != nil {
		t.Fatalf("draft: %v", err)
	}

	if gotAuth != "Bearer llm-key" {
		t.Errorf("unexpected auth header: %s", gotAuth)
	}
	if !strings.Contains(gotBody, `"model":"test-model"`) {
		t.Errorf("request missing model: %s", gotBody)
	}
	if !strings.Contains(gotBody, `"response_format":{"type":"json_object"}`) {
		t.Errorf("request missing response format: %s", gotBody)
	}
	if !strings.Contains(gotBody, "https://x.com/i/status/100") {
		t.Errorf("request missing serialized items: %s", gotBody)
	}

	if len(draft.Stories) != 1 {
		t.Fatalf("expected 1 story, got %d", len(draft.Stories))
	}
	story := draft.Stories[0]
	if story.Link != "https://x.com/i/status/100" {
		t.Errorf("unexpected link: %s", story.Link)
	}
	if story.Description != "New model" {
		t.Errorf("unexpected description: %s", story.Description)
	}
}

func TestLLMDraftEmptyStories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatReply(`{"interestingTweetsOrStories": []}`)))
	}))
	defer srv.Close()

	drafter, err := NewLLM(srv.URL, "llm-key", "test-model")
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}

	if _, err := drafter.Draft(context.Background(), testItems()); err == nil {
		t.Fatal("expected error for draft with no stories")
	}
}

func TestLLMDraftServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	drafter, err := NewLLM(srv.URL, "llm-key", "test-model")
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}

	if _, err := drafter.Draft(context.Background(), testItems()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestLLMDraftNoItems(t *testing.T) {
	drafter, err := NewLLM("https://example.com", "llm-key", "test-model")
	if err != nil {
		t.Fatalf("new drafter: %v", err)
	}
	if _, err := drafter.Draft(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestPassthroughDraft(t *testing.T) {
	var p PassthroughDrafter

	items := []source.Item{
		{Headline: "a", Content: "a body", Link: "https://example.com/a", DatePosted: "2026-08-31"},
		{Headline: "b", Link: "https://example.com/b", DatePosted: "2026-08-31"},
	}
	draft, err := p.Draft(context.Background(), items)
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if len(draft.Stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(draft.Stories))
	}
	if draft.Stories[0].Content != "a body" {
		t.Errorf("unexpected content: %q", draft.Stories[0].Content)
	}
	// Headline stands in for missing content.
	if draft.Stories[1].Content != "b" {
		t.Errorf("expected headline fallback, got %q", draft.Stories[1].Content)
	}

	if _, err := p.Draft(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
