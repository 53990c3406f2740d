// Package policy evaluates the per-service route access tables. Each service
// declares a static table of (method, path pattern) rules checked
// top-to-bottom before any handler runs; anything unmatched falls back to the
// table's fallback access, which is deny-all unless a service explicitly opts
// out.
package policy

import (
	"crypto/subtle"
	"strings"

	"fides/internal/token"
)

type accessKind int

const (
	kindPublic accessKind = iota
	kindAuthenticated
	kindRole
	kindAPIKey
	kindDeny
)

// Access is the authentication state a rule requires.
type Access struct {
	kind   accessKind
	role   token.Role
	header string
	key    string
}

// Public allows anonymous requests.
func Public() Access { return Access{kind: kindPublic} }

// Authenticated requires any valid identity.
func Authenticated() Access { return Access{kind: kindAuthenticated} }

// RequireRole requires a valid identity holding the role's authority.
func RequireRole(role token.Role) Access { return Access{kind: kindRole, role: role} }

// APIKey requires the named header to equal the shared key. This gate is
// independent of the token mechanism: it serves service-to-service calls
// that carry no user token.
func APIKey(header, key string) Access { return Access{kind: kindAPIKey, header: header, key: key} }

// DenyAll rejects every request.
func DenyAll() Access { return Access{kind: kindDeny} }

// Rule binds one method and path pattern to a required access. An empty
// method matches all methods; a pattern ending in "/*" matches the prefix.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

// Table is a service's access policy. Rules are evaluated in order, first
// match wins; unmatched requests get Fallback.
type Table struct {
	Rules    []Rule
	Fallback Access
}

// Decision is the outcome of evaluating a request against a table.
type Decision int

const (
	// Allow lets the request through to the handler.
	Allow Decision = iota
	// Unauthorized rejects with 401: no identity or bad key where one is required.
	Unauthorized
	// Forbidden rejects with 403: identity present but lacking the role, or a deny rule.
	Forbidden
)

// Evaluate decides a request. identity is the outcome of the token filter
// (zero value when anonymous); header exposes request headers for key gates.
func (t Table) Evaluate(method, path string, identity token.Identity, header func(string) string) Decision {
	access := t.Fallback
	for _, rule := range t.Rules {
		if rule.matches(method, path) {
			access = rule.Access
			break
		}
	}
	return access.decide(identity, header)
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

func (a Access) decide(identity token.Identity, header func(string) string) Decision {
	switch a.kind {
	case kindPublic:
		return Allow
	case kindAuthenticated:
		if identity.IsAuthenticated() {
			return Allow
		}
		return Unauthorized
	case kindRole:
		if !identity.IsAuthenticated() {
			return Unauthorized
		}
		if identity.HasAuthority(a.role.Authority()) {
			return Allow
		}
		return Forbidden
	case kindAPIKey:
		provided := header(a.header)
		if provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(a.key)) == 1 {
			return Allow
		}
		return Unauthorized
	default:
		return Forbidden
	}
}
