package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fides/internal/audit"
	"fides/internal/audit/handler"
	"fides/internal/audit/store"
	"fides/internal/platform/metrics"
	"fides/internal/policy"
	"fides/internal/token"
	"fides/pkg/testutil"
)

const (
	testAuditKey  = "k-9f2c1e7a44b8"
	testJWTSecret = "0WduQAIoaDywrbNrDvTSTLYV1NZWBlkG"
)

type fixture struct {
	router chi.Router
	store  *store.MemoryStore
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	memStore := store.NewMemoryStore()
	tokens := token.NewService(testJWTSecret, 3600)
	m := metrics.NewWith(prometheus.NewRegistry(), "audit-service")
	h := handler.New(audit.NewService(memStore), logger, m)

	router := chi.NewRouter()
	router.Use(token.Authenticate(tokens, logger))
	router.Use(policy.Enforce(handler.Policy(testAuditKey), logger))
	h.Register(router)

	return &fixture{router: router, store: memStore, tokens: tokens}
}

func (f *fixture) bearer(t *testing.T) string {
	t.Helper()
	tokenString, err := f.tokens.Issue("demo@example.com", token.RoleUser)
	require.NoError(t, err)
	return "Bearer " + tokenString
}

func (f *fixture) storedEvents(t *testing.T) []audit.Event {
	t.Helper()
	events, err := f.store.Recent(context.Background(), 100)
	require.NoError(t, err)
	return events
}

func TestHealthIsPublic(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/audit/health"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")
}

func TestCreateEvent(t *testing.T) {
	body := map[string]string{
		"eventType": "LOGIN_SUCCESS",
		"actor":     "demo@example.com",
		"details":   "login successful",
		"source":    "auth-service",
	}

	t.Run("stores event with valid key", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/events", body)
		req.Header.Set("x-audit-key", testAuditKey)

		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
		events := f.storedEvents(t)
		require.Len(t, events, 1)
		assert.Equal(t, "LOGIN_SUCCESS", events[0].EventType)
		assert.NotEmpty(t, events[0].ID)
		assert.WithinDuration(t, time.Now().UTC(), events[0].CreatedAt, 5*time.Second)
	})

	t.Run("missing key persists nothing", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/events", body)

		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		assert.Empty(t, f.storedEvents(t))
	})

	t.Run("wrong key persists nothing for any body", func(t *testing.T) {
		f := newFixture(t)
		for _, payload := range []any{body, map[string]string{}, "not-even-json"} {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/events", payload)
			req.Header.Set("x-audit-key", "wrong-key")

			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		}
		assert.Empty(t, f.storedEvents(t))
	})

	t.Run("blank eventType rejected", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/events",
			map[string]string{"eventType": "  ", "actor": "demo@example.com"})
		req.Header.Set("x-audit-key", testAuditKey)

		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Empty(t, f.storedEvents(t))
	})

	t.Run("a user token is not an audit key", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/audit/events", body)
		req.Header.Set("Authorization", f.bearer(t))

		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		assert.Empty(t, f.storedEvents(t))
	})
}

func TestRecent(t *testing.T) {
	seed := func(t *testing.T, f *fixture, n int) {
		t.Helper()
		svc := audit.NewService(f.store)
		for i := range n {
			_, err := svc.Record(context.Background(), audit.Event{
				EventType: audit.EventMessageView,
				Actor:     "demo@example.com",
				Source:    "api-service",
				Details:   string(rune('a' + i)),
			})
			require.NoError(t, err)
		}
	}

	t.Run("requires a bearer token", func(t *testing.T) {
		f := newFixture(t)
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/audit/recent"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("returns newest first", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, 3)

		req := testutil.NewRequest(t, http.MethodGet, "/audit/recent")
		req.Header.Set("Authorization", f.bearer(t))
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusOK(t, rr)
		events := testutil.UnmarshalResponse[[]audit.Event](t, rr)
		require.Len(t, *events, 3)
	})

	t.Run("honors explicit limit", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, 5)

		req := testutil.NewRequest(t, http.MethodGet, "/audit/recent?limit=2")
		req.Header.Set("Authorization", f.bearer(t))
		rr := testutil.DoRequest(f.router, req)

		testutil.AssertStatusOK(t, rr)
		events := testutil.UnmarshalResponse[[]audit.Event](t, rr)
		assert.Len(t, *events, 2)
	})

	t.Run("zero and negative limits still return events", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f, 3)

		for _, query := range []string{"?limit=0", "?limit=-5"} {
			req := testutil.NewRequest(t, http.MethodGet, "/audit/recent"+query)
			req.Header.Set("Authorization", f.bearer(t))
			rr := testutil.DoRequest(f.router, req)

			testutil.AssertStatusOK(t, rr)
			events := testutil.UnmarshalResponse[[]audit.Event](t, rr)
			assert.Len(t, *events, 1)
		}
	})

	t.Run("non-integer limit rejected", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewRequest(t, http.MethodGet, "/audit/recent?limit=lots")
		req.Header.Set("Authorization", f.bearer(t))
		rr := testutil.DoRequest(f.router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("unknown route denied even with token", func(t *testing.T) {
		f := newFixture(t)
		req := testutil.NewRequest(t, http.MethodGet, "/audit/everything")
		req.Header.Set("Authorization", f.bearer(t))
		rr := testutil.DoRequest(f.router, req)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}
