// Package bridge implements the JSON request/response channel to the
// companion browser extension. Every call is a single POST with an action
// tag and a params object; the extension answers with an ok/error envelope.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error tags reported by the extension. They drive the run error taxonomy.
const (
	TagNetwork  = "network"
	TagSelector = "selector"
	TagAuth     = "auth"
)

// Error is a tagged failure from the extension or from the transport itself.
type Error struct {
	Action  string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bridge %s: %s error", e.Action, e.Tag)
	}
	return fmt.Sprintf("bridge %s: %s", e.Action, e.Message)
}

type request struct {
	Action string `json:"action"`
	Params any    `json:"params,omitempty"`
}

type envelope struct {
	OK    bool            `json:"ok"`
	Error *errorBody      `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type errorBody struct {
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Client talks to the extension's local endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the given base URL (e.g. http://127.0.0.1:8917).
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Call sends one action request and decodes the data payload into out.
// Transport failures come back tagged as network errors; extension-reported
// failures keep the tag the extension chose.
func (c *Client) Call(ctx context.Context, action string, params any, out any) error {
	body, err := json.Marshal(request{Action: action, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &Error{Action: action, Tag: TagNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Action: action, Tag: TagNetwork, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Action: action, Tag: TagNetwork, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if !env.OK {
		tag := TagNetwork
		msg := "request rejected"
		if env.Error != nil {
			if env.Error.Tag != "" {
				tag = env.Error.Tag
			}
			if env.Error.Message != "" {
				msg = env.Error.Message
			}
		}
		return &Error{Action: action, Tag: tag, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Action: action, Tag: TagSelector, Message: fmt.Sprintf("decode payload: %v", err)}
	}
	return nil
}
