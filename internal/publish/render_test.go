package publish

import (
	"strings"
	"testing"

	"github.com/trendpress/trendpress/internal/summarize"
)

func TestRenderHTML(t *testing.T) {
	draft := &summarize.Draft{
		Stories: []summarize.Story{
			{
				Link:        "https://example.com/a",
				Description: "Story <one>",
				DatePosted:  "2026-08-31",
				Content:     "Body with <tags> & ampersands.",
			},
			{
				Link:        "https://example.com/b",
				Description: "Story two",
				Content:     "Second body.",
			},
		},
	}

	out := RenderHTML(draft, "AI Trends Daily - 2026-08-31")

	if !strings.Contains(out, "AI Trends Daily - 2026-08-31") {
		t.Error("title missing from output")
	}
	if !strings.Contains(out, "Story &lt;one&gt;") {
		t.Error("description not escaped")
	}
	if !strings.Contains(out, "Body with &lt;tags&gt; &amp; ampersands.") {
		t.Error("content not escaped")
	}
	if !strings.Contains(out, "Source: https://example.com/a") {
		t.Error("source link missing")
	}
	if !strings.Contains(out, "Posted: 2026-08-31") {
		t.Error("date line missing for dated story")
	}
	if strings.Count(out, "Posted:") != 1 {
		t.Error("date line rendered for story without date")
	}
	if strings.Count(out, "Source:") != 2 {
		t.Errorf("expected one source line per story, got %d", strings.Count(out, "Source:"))
	}
	if strings.Contains(out, "<style") {
		t.Error("output must not contain stylesheet blocks")
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	draft := &summarize.Draft{
		Stories: []summarize.Story{{Link: "https://example.com/a", Description: "d", Content: "c"}},
	}
	first := RenderHTML(draft, "t")
	for i := 0; i < 5; i++ {
		if RenderHTML(draft, "t") != first {
			t.Fatal("output not deterministic across calls")
		}
	}
}

func TestFirstNRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"hello", 0, ""},
		{"héllo", 2, "hé"},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := firstNRunes(tc.in, tc.n); got != tc.want {
			t.Errorf("firstNRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
