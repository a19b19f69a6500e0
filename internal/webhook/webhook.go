// Package webhook posts best-effort event notifications to an external
// automation endpoint (n8n). Failures are logged and swallowed so they can
// never fail the operation that triggered them.
package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type payload struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

type Notifier struct {
	url    string
	client *http.Client
	logger *zap.SugaredLogger
}

func NewNotifier(url string, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Send posts the event. It blocks up to the client timeout; callers that
// must not wait run it in a goroutine. Silently skipped when no URL is
// configured.
func (n *Notifier) Send(event string, data map[string]any) {
	if n.url == "" {
		n.logger.Debugw("no webhook URL configured, skipping", "event", event)
		return
	}

	body, err := json.Marshal(payload{
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		n.logger.Errorw("failed to encode webhook payload", "event", event, "error", err)
		return
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.logger.Errorw("failed to send webhook", "event", event, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Errorw("webhook endpoint returned error", "event", event, "status", resp.StatusCode)
		return
	}
	n.logger.Infow("webhook sent", "event", event)
}
