package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "fides/pkg/domain-errors"
)

// Timeout bounds for the provider call, in milliseconds. Configured values
// outside this range are clamped.
const (
	minTimeoutMS = 1000
	maxTimeoutMS = 30000
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// Provider-facing failure modes, all surfacing to clients as 502.
var (
	ErrProviderTimeout  = dErrors.New(dErrors.CodeUpstream, "notification provider timed out")
	ErrProviderRejected = dErrors.New(dErrors.CodeUpstream, "notification provider rejected the message")
	ErrProviderDown     = dErrors.New(dErrors.CodeUpstream, "notification provider unreachable")
)

// Sender delivers a notification. Implementations attempt delivery exactly once.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// TwilioConfig holds the provider credentials and delivery settings.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	TimeoutMS  int64
	// CallbackURL, when set, asks the provider to report delivery status
	// to the /twilio/status endpoint.
	CallbackURL string
	// BaseURL overrides the provider API root. Tests point it at a local server.
	BaseURL string
}

// TwilioSender delivers SMS via the Twilio Messages API.
type TwilioSender struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = twilioAPIBase
	}
	return &TwilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: clampTimeout(cfg.TimeoutMS)},
	}
}

func clampTimeout(ms int64) time.Duration {
	return time.Duration(min(max(ms, minTimeoutMS), maxTimeoutMS)) * time.Millisecond
}

func (s *TwilioSender) Send(ctx context.Context, n Notification) error {
	form := url.Values{}
	form.Set("To", n.To)
	form.Set("From", s.cfg.From)
	form.Set("Body", n.Subject+"\n\n"+n.Text)
	if s.cfg.CallbackURL != "" {
		form.Set("StatusCallback", s.cfg.CallbackURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return ErrProviderTimeout
		}
		return ErrProviderDown
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrProviderRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
