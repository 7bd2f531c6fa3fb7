package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/scrape-playground/models"
)

// Event types delivered to webhook endpoints.
const (
	EventRunSucceeded = "run.succeeded"
	EventRunFailed    = "run.failed"
)

// SignatureHeader carries "sha256=<hex>" when a secret is configured.
const SignatureHeader = "X-Playground-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string     `json:"type"`
	RunID     string     `json:"run_id"`
	Timestamp int64      `json:"timestamp"`
	Data      models.Run `json:"data"`
}

// Notifier delivers run events to a single endpoint. A nil Notifier or
// one with an empty URL does nothing.
type Notifier struct {
	url    string
	secret string
	client *http.Client
	delays []time.Duration
}

// NewNotifier returns a Notifier for url, or nil when url is empty.
func NewNotifier(url, secret string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		delays: []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second},
	}
}

// RunFinished sends run.succeeded or run.failed for run in the background.
func (n *Notifier) RunFinished(run models.Run) {
	if n == nil {
		return
	}
	typ := EventRunFailed
	if run.Status == models.RunSuccess {
		typ = EventRunSucceeded
	}
	n.DeliverAsync(&Event{
		Type:      typ,
		RunID:     run.ID,
		Timestamp: time.Now().Unix(),
		Data:      run,
	})
}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if a secret is set.
func (n *Notifier) Deliver(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Scrape-Playground-Webhook/1.0")

	if n.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync sends a webhook event in a goroutine, retrying after each
// configured delay (default 1s, 5s, 30s).
func (n *Notifier) DeliverAsync(event *Event) {
	go func() {
		for attempt, delay := range n.delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := n.Deliver(ctx, event)
			cancel()
			if err == nil {
				slog.Info("webhook delivered",
					"url", n.url,
					"event", event.Type,
					"run_id", event.RunID,
					"attempt", attempt+1,
				)
				return
			}
			slog.Warn("webhook delivery failed",
				"url", n.url,
				"event", event.Type,
				"run_id", event.RunID,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("webhook delivery exhausted all retries",
			"url", n.url,
			"event", event.Type,
			"run_id", event.RunID,
		)
	}()
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
