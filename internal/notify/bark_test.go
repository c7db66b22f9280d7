package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotifySendsPush(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"code": 200}`))
	}))
	defer srv.Close()

	b := NewBark(srv.URL, "device-key", nil)
	b.Notify(context.Background(), "Draft published", "3 stories")

	if gotPath != "/device-key/Draft%20published/3%20stories" {
		t.Errorf("unexpected request path: %s", gotPath)
	}
}

func TestNotifyDisabledWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	b := NewBark(srv.URL, "", nil)
	b.Notify(context.Background(), "title", "body")

	if called {
		t.Error("notifier without key must not send requests")
	}
}

func TestNotifySwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	b := NewBark(srv.URL, "device-key", nil)
	// Must not panic or propagate anything.
	b.Notify(context.Background(), "title", "body")
}

func TestNotifySwallowsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	b := NewBark(srv.URL, "device-key", nil)
	b.Notify(context.Background(), "title", "body")
}
