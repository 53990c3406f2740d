package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"fides/internal/notify"
	"fides/internal/notify/handler"
	"fides/internal/policy"
	"fides/pkg/testutil"
)

const (
	testNotifyKey   = "k-3c88f1d2ab04"
	testAuthToken   = "12345678901234567890123456789012"
	testCallbackURL = "https://notify.example.net/twilio/status"
)

type fakeSender struct {
	sent []notify.Notification
	err  error
}

func (f *fakeSender) Send(_ context.Context, n notify.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func newRouter(sender notify.Sender, callbackURL string) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Use(policy.Enforce(handler.Policy(testNotifyKey), logger))
	handler.New(sender, testAuthToken, callbackURL, logger).Register(router)
	return router
}

func validBody() map[string]string {
	return map[string]string{
		"to":      "+12025550123",
		"subject": "Test notification",
		"text":    "It works.",
	}
}

func TestNotifyDeliversWithKey(t *testing.T) {
	sender := &fakeSender{}
	router := newRouter(sender, "")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/notify", validBody())
	req.Header.Set("x-notify-key", testNotifyKey)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
	assert.Equal(t, []notify.Notification{{
		To:      "+12025550123",
		Subject: "Test notification",
		Text:    "It works.",
	}}, sender.sent)
}

func TestNotifyRequiresKey(t *testing.T) {
	sender := &fakeSender{}
	router := newRouter(sender, "")

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/notify", validBody()))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/notify", validBody())
	req.Header.Set("x-notify-key", "wrong-key")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	assert.Empty(t, sender.sent)
}

func TestNotifyValidation(t *testing.T) {
	sender := &fakeSender{}
	router := newRouter(sender, "")

	body := validBody()
	body["to"] = "12025550123"
	req := testutil.NewJSONRequest(t, http.MethodPost, "/notify", body)
	req.Header.Set("x-notify-key", testNotifyKey)

	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Empty(t, sender.sent)
}

func TestNotifyProviderFailure(t *testing.T) {
	router := newRouter(&fakeSender{err: notify.ErrProviderTimeout}, "")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/notify", validBody())
	req.Header.Set("x-notify-key", testNotifyKey)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	testutil.AssertErrorCode(t, rr, "upstream_unavailable")
}

func TestStatusCallback(t *testing.T) {
	form := url.Values{
		"MessageSid":    {"SM00000000000000000000000000000000"},
		"MessageStatus": {"delivered"},
		"To":            {"+12025550123"},
	}

	t.Run("404 when not configured", func(t *testing.T) {
		router := newRouter(&fakeSender{}, "")
		req := testutil.NewFormRequest(t, http.MethodPost, "/twilio/status", form)
		req.Header.Set("X-Twilio-Signature", notify.ComputeSignature(testAuthToken, testCallbackURL, form))

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("accepts a signed callback", func(t *testing.T) {
		router := newRouter(&fakeSender{}, testCallbackURL)
		req := testutil.NewFormRequest(t, http.MethodPost, "/twilio/status", form)
		req.Header.Set("X-Twilio-Signature", notify.ComputeSignature(testAuthToken, testCallbackURL, form))

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("rejects a missing signature", func(t *testing.T) {
		router := newRouter(&fakeSender{}, testCallbackURL)
		rr := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/twilio/status", form))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		router := newRouter(&fakeSender{}, testCallbackURL)
		req := testutil.NewFormRequest(t, http.MethodPost, "/twilio/status", form)
		req.Header.Set("X-Twilio-Signature", notify.ComputeSignature("other-token", testCallbackURL, form))

		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}
