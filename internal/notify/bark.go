// Package notify sends best-effort operator push notifications.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const notifyTimeout = 10 * time.Second

// Bark pushes notifications through a Bark-style GET API. Delivery is
// best-effort: failures are logged, never returned. An empty device key
// disables notifications entirely.
type Bark struct {
	baseURL string
	key     string
	client  *http.Client
	log     *logrus.Logger
}

// NewBark creates a notifier. key may be empty to disable notifications.
func NewBark(baseURL, key string, log *logrus.Logger) *Bark {
	if log == nil {
		log = logrus.New()
	}
	return &Bark{
		baseURL: baseURL,
		key:     key,
		client:  &http.Client{Timeout: notifyTimeout},
		log:     log,
	}
}

// Notify sends one push. Errors are swallowed after logging.
func (b *Bark) Notify(ctx context.Context, title, body string) {
	if b == nil || b.key == "" {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reqURL := fmt.Sprintf("%s/%s/%s/%s",
		b.baseURL, b.key, url.PathEscape(title), url.PathEscape(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		b.log.WithField("error", err.Error()).Warn("notify: build request failed")
		return
	}

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.WithField("error", err.Error()).Warn("notify: send failed")
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.log.WithField("status", resp.StatusCode).Warn("notify: non-200 response")
	}
}
