package token

import (
	"fmt"
	"strings"
)

// Role is the closed set of principal roles. Tokens carrying anything else
// fail verification instead of minting an authority nobody granted.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole resolves a role claim against the known set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Authority returns the namespaced authority tag for the role, e.g. role
// "admin" grants authority "ROLE_ADMIN".
func (r Role) Authority() string {
	return "ROLE_" + strings.ToUpper(string(r))
}
