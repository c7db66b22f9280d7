package source

import "testing"

func TestUsername(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://x.com/OpenAI", "OpenAI"},
		{"https://x.com/AnthropicAI/", "AnthropicAI"},
		{"http://x.com/someone", "someone"},
		{"https://example.com/blog", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Username(tc.url); got != tc.want {
			t.Errorf("Username(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestIsSocial(t *testing.T) {
	if !IsSocial("https://x.com/OpenAI") {
		t.Error("expected x.com URL to be social")
	}
	if IsSocial("https://news.ycombinator.com") {
		t.Error("expected plain page URL to not be social")
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<p>hello <b>world</b></p>", "hello world"},
		{"<div><a href=\"/x\">link</a>   and    text</div>", "link and text"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"one line", "one line"},
		{"first\nsecond\nthird", "first"},
		{"  trimmed \nrest", "trimmed"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FirstLine(tc.in); got != tc.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
