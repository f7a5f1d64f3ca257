// Package notification sends fire-and-forget webhook messages at run
// milestones, so the human gets pinged when a cart is ready for review.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// sendTimeout bounds one webhook delivery; the run never waits on it.
const sendTimeout = 10 * time.Second

// Sender posts JSON messages to a webhook. The zero value (empty Webhook)
// is a no-op sender.
type Sender struct {
	Webhook string
	Channel string
	ChatID  string

	// HTTPClient defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
}

type payload struct {
	Channel string `json:"channel,omitempty"`
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message"`
}

// Send delivers one message. Fire-and-forget: it never blocks the caller
// beyond the send timeout and is silent on failure.
func (s *Sender) Send(message string) {
	if s == nil || s.Webhook == "" {
		return
	}

	body, err := json.Marshal(payload{Channel: s.Channel, ChatID: s.ChatID, Message: message})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
