// Package notify posts workflow alerts to an optional JSON webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/logging"
)

// Event is the webhook body.
type Event struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	SentAt  time.Time              `json:"sent_at"`
}

// Webhook is nil-safe: a nil *Webhook or an empty URL sends nothing.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Enabled() bool { return w != nil && w.URL != "" }

// Send posts ev and fails on any non-2xx answer.
func (w *Webhook) Send(ctx context.Context, ev Event) error {
	if !w.Enabled() {
		return nil
	}
	if ev.SentAt.IsZero() {
		ev.SentAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook %s: status %d", ev.Type, resp.StatusCode)
	}
	return nil
}

// Notify sends in the background and only logs failures.
func (w *Webhook) Notify(ev Event) {
	if !w.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.Send(ctx, ev); err != nil {
			logging.Warn("webhook failed", map[string]interface{}{"type": ev.Type, "error": err.Error()})
		}
	}()
}
