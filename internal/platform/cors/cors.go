// Package cors holds the shared allowed-origins policy. Every browser-facing
// service parses its origin list through here so the "no wildcard, no blank"
// rules cannot drift between deployments.
package cors

import (
	"fmt"
	"net/http"
	"strings"

	chicors "github.com/go-chi/cors"
)

// ParseAllowedOrigins splits a comma-separated origin list. A blank list and
// the '*' wildcard are both configuration errors: an operator must name the
// frontends explicitly.
func ParseAllowedOrigins(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("APP_CORS_ALLOWED_ORIGINS must be explicitly set and cannot be blank")
	}
	if trimmed == "*" {
		return nil, fmt.Errorf("APP_CORS_ALLOWED_ORIGINS wildcard '*' is not allowed")
	}

	var origins []string
	for part := range strings.SplitSeq(trimmed, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("APP_CORS_ALLOWED_ORIGINS must contain at least one origin")
	}
	return origins, nil
}

// Middleware builds the CORS request handler for the given origin list.
func Middleware(origins []string) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
}
