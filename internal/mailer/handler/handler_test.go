package handler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"fides/internal/mailer"
	"fides/internal/mailer/handler"
	"fides/internal/policy"
	"fides/pkg/testutil"
)

const testMailerKey = "k-6d41a0bc7e55"

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newRouter(sender mailer.Sender) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Use(policy.Enforce(handler.Policy(testMailerKey), logger))
	handler.New(sender, logger).Register(router)
	return router
}

func validBody() map[string]string {
	return map[string]string{
		"to":      "recipient@example.com",
		"subject": "Test email",
		"text":    "It works.",
	}
}

func TestSendDeliversWithKey(t *testing.T) {
	sender := &fakeSender{}
	router := newRouter(sender)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/send", validBody())
	req.Header.Set("x-mailer-key", testMailerKey)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
	assert.Equal(t, []mailer.Message{{
		To:      "recipient@example.com",
		Subject: "Test email",
		Text:    "It works.",
	}}, sender.sent)
}

func TestSendRequiresKey(t *testing.T) {
	sender := &fakeSender{}
	router := newRouter(sender)

	t.Run("missing key", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/send", validBody()))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/send", validBody())
		req.Header.Set("x-mailer-key", "wrong-key")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	assert.Empty(t, sender.sent, "nothing may be sent without the key")
}

func TestSendValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing to":      {"subject": "s", "text": "t"},
		"bad email":       {"to": "not-an-email", "subject": "s", "text": "t"},
		"missing subject": {"to": "recipient@example.com", "text": "t"},
		"missing text":    {"to": "recipient@example.com", "subject": "s"},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			req := testutil.NewJSONRequest(t, http.MethodPost, "/send", body)
			req.Header.Set("x-mailer-key", testMailerKey)

			rr := testutil.DoRequest(newRouter(sender), req)

			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSendFailureIsUpstreamError(t *testing.T) {
	router := newRouter(&fakeSender{err: errors.New("relay unreachable")})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/send", validBody())
	req.Header.Set("x-mailer-key", testMailerKey)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	testutil.AssertErrorCode(t, rr, "upstream_unavailable")
}

func TestHealthIsPublic(t *testing.T) {
	rr := testutil.DoRequest(newRouter(&fakeSender{}), testutil.NewRequest(t, http.MethodGet, "/health"))
	testutil.AssertStatusOK(t, rr)
}
