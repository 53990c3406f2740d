package token

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// Identity is an authenticated principal extracted from a verified token.
// The zero value is anonymous.
type Identity struct {
	Subject     string
	Role        Role
	Authorities []string
}

// IsAuthenticated reports whether the identity belongs to a verified token.
func (i Identity) IsAuthenticated() bool {
	return i.Subject != ""
}

// HasAuthority reports whether the identity carries the authority tag.
func (i Identity) HasAuthority(authority string) bool {
	return slices.Contains(i.Authorities, authority)
}

type contextKeyIdentity struct{}

// IdentityFrom retrieves the verified identity threaded through the request
// context, or the anonymous zero value.
func IdentityFrom(ctx context.Context) Identity {
	identity, _ := ctx.Value(contextKeyIdentity{}).(Identity)
	return identity
}

// WithIdentity returns a context carrying the identity. Exposed for tests
// that exercise handlers without the full middleware chain.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity{}, identity)
}

// Verifier validates a compact token into an identity.
type Verifier interface {
	Verify(tokenString string) (Identity, error)
}

const bearerPrefix = "Bearer "

// Authenticate is the request-scoped authentication filter. A request with
// no bearer credential passes through anonymous; the route policy decides
// later whether anonymity is acceptable. A credential that fails
// verification rejects the request immediately. The filter performs no
// network calls and emits no audit events: the hot path stays local.
func Authenticate(verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected bearer token",
					"error", err,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
