// Package gateway is the authenticated API front. It fans test sends out to
// the mailer and notifier services and audits every outcome.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client posts JSON payloads to one key-gated downstream service. Each call
// is a single attempt bounded by the configured timeout.
type Client struct {
	http      *http.Client
	endpoint  string
	keyHeader string
	key       string
}

// NewClient builds a downstream client for endpoint, authenticating with
// key in keyHeader.
func NewClient(endpoint, keyHeader, key string, timeout time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		keyHeader: keyHeader,
		key:       key,
	}
}

// Post sends payload to the downstream. Any transport failure or non-2xx
// response is an error; the caller decides how that maps to its own client.
func (c *Client) Post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding downstream payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building downstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.keyHeader, c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling downstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("downstream responded %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// SendPayload is the body posted to the mailer and notifier services.
type SendPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
