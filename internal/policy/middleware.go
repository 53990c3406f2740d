package policy

import (
	"log/slog"
	"net/http"

	"fides/internal/token"
)

// Enforce applies a table as middleware. It runs after the token filter so
// authenticated and role rules see the verified identity.
func Enforce(table Table, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := token.IdentityFrom(r.Context())
			decision := table.Evaluate(r.Method, r.URL.Path, identity, r.Header.Get)
			switch decision {
			case Allow:
				next.ServeHTTP(w, r)
			case Unauthorized:
				logger.WarnContext(r.Context(), "request not authenticated",
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
			default:
				logger.WarnContext(r.Context(), "request not authorized",
					"method", r.Method,
					"path", r.URL.Path,
					"subject", identity.Subject,
				)
				writeDenied(w, http.StatusForbidden, "forbidden")
			}
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `"}`))
}
