package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAddDraft(t *testing.T) {
	var tokenQuery string
	var draftToken string
	var draftBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cgi-bin/token":
			tokenQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"access_token": "tok-123", "expires_in": 7200}`))
		case "/cgi-bin/draft/add":
			draftToken = r.URL.Query().Get("access_token")
			raw, _ := io.ReadAll(r.Body)
			draftBody = string(raw)
			_, _ = w.Write([]byte(`{"errcode": 0, "errmsg": "ok", "media_id": "m-1"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "app-id", "app-secret")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	article := Article{
		Title:   "AI Trends Daily - 2026-08-31",
		Author:  "trendpress",
		Digest:  "3 stories",
		Content: "<div>body</div>",
	}
	if err := client.AddDraft(context.Background(), article); err != nil {
		t.Fatalf("add draft: %v", err)
	}

	if !strings.Contains(tokenQuery, "appid=app-id") || !strings.Contains(tokenQuery, "grant_type=client_credential") {
		t.Errorf("unexpected token query: %s", tokenQuery)
	}
	if draftToken != "tok-123" {
		t.Errorf("draft call used token %q", draftToken)
	}
	if !strings.Contains(draftBody, `"articles":[{`) {
		t.Errorf("draft body missing articles array: %s", draftBody)
	}
	if !strings.Contains(draftBody, `"title":"AI Trends Daily - 2026-08-31"`) {
		t.Errorf("draft body missing title: %s", draftBody)
	}
}

func TestAddDraftPlatformError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cgi-bin/token":
			_, _ = w.Write([]byte(`{"access_token": "tok-123"}`))
		case "/cgi-bin/draft/add":
			// The platform reports errors with HTTP 200 and a non-zero errcode.
			_, _ = w.Write([]byte(`{"errcode": 45009, "errmsg": "reach max api daily quota limit"}`))
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "app-id", "app-secret")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.AddDraft(context.Background(), Article{Title: "t"})
	if err == nil || !strings.Contains(err.Error(), "45009") {
		t.Fatalf("expected errcode error, got %v", err)
	}
}

func TestAddDraftTokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode": 40013, "errmsg": "invalid appid"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "bad-id", "app-secret")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.AddDraft(context.Background(), Article{Title: "t"})
	if err == nil || !strings.Contains(err.Error(), "40013") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "id", "secret"); err == nil {
		t.Error("expected error for missing base URL")
	}
	if _, err := NewClient("https://example.com", "", "secret"); err == nil {
		t.Error("expected error for missing app id")
	}
	if _, err := NewClient("https://example.com", "id", ""); err == nil {
		t.Error("expected error for missing app secret")
	}
}
