package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fides/internal/audit/relay"
	"fides/internal/auth"
	"fides/internal/auth/handler"
	"fides/internal/auth/store"
	"fides/internal/platform/metrics"
	"fides/internal/policy"
	"fides/internal/token"
	"fides/pkg/testutil"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "s3cret-pass"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := store.NewMemoryStore()
	require.NoError(t, auth.Seed(context.Background(), users, demoEmail, demoPassword, "user"))

	tokens := token.NewService("0WduQAIoaDywrbNrDvTSTLYV1NZWBlkG", 3600)
	m := metrics.NewWith(prometheus.NewRegistry(), "auth-service")
	svc := auth.NewService(users, tokens, relay.Noop{}, m, logger)

	router := chi.NewRouter()
	router.Use(policy.Enforce(handler.Policy(), logger))
	handler.New(svc, logger).Register(router)
	return router
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		router := newRouter(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"email": demoEmail, "password": demoPassword})

		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.NotEmpty(t, (*resp)["token"])
		assert.EqualValues(t, 3600, (*resp)["expiresIn"])
		user, ok := (*resp)["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, demoEmail, user["email"])
		assert.Equal(t, "user", user["role"])
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		router := newRouter(t)

		rrUnknown := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"email": "nobody@example.com", "password": demoPassword}))
		rrWrongPass := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"email": demoEmail, "password": "wrong"}))

		testutil.AssertStatus(t, rrUnknown, http.StatusUnauthorized)
		testutil.AssertStatus(t, rrWrongPass, http.StatusUnauthorized)
		assert.Equal(t, rrUnknown.Body.String(), rrWrongPass.Body.String())
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		router := newRouter(t)
		for _, email := range []string{"", "not-an-email", "missing@tld"} {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
				map[string]string{"email": email, "password": demoPassword}))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		}
	})

	t.Run("blank password rejected", func(t *testing.T) {
		router := newRouter(t)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"email": demoEmail}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		router := newRouter(t)
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", "{nope"))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/health"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
}

func TestUnknownRouteDenied(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/users"))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}
