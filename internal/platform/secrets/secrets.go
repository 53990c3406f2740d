// Package secrets gates process startup on credential integrity. Every
// service runs these checks before it opens a listener so a demo or sample
// secret can never ship to a live environment.
package secrets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlaceholder is wrapped by Require when a value matches the placeholder
// classification, so callers can distinguish "missing" from "sample".
var ErrPlaceholder = errors.New("placeholder secret")

// knownSamples is the fixed deny-list of values that ship in example
// configuration files across the deployment.
var knownSamples = map[string]struct{}{
	"secret":                             {},
	"dev-password-placeholder":           {},
	"dev-jwt-secret-placeholder":         {},
	"dev-jwt-secret-placeholder-32bytes": {},
	"dev-mailer-key-placeholder":         {},
	"dev-notify-key-placeholder":         {},
	"dev-audit-key-placeholder":          {},
	"replace-with-twilio-account-sid":    {},
	"replace-with-twilio-auth-token":     {},
	"replace-with-twilio-from-number":    {},
	"your-smtp-user":                     {},
	"your-smtp-password":                 {},
	"your-smtp-from@example.com":         {},
}

// IsPlaceholder reports whether value looks like a sample credential.
// Matching is case-insensitive on the trimmed value.
func IsPlaceholder(value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if _, ok := knownSamples[normalized]; ok {
		return true
	}
	return strings.Contains(normalized, "placeholder") ||
		strings.HasPrefix(normalized, "your-") ||
		strings.Contains(normalized, "example.com") ||
		strings.Contains(normalized, "replace-with")
}

// Require validates a single named credential. The name appears in the error
// so operators know which variable to fix; the value never does.
func Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required and cannot be blank", name)
	}
	if IsPlaceholder(value) {
		return fmt.Errorf("%s uses a %w value and must be replaced", name, ErrPlaceholder)
	}
	return nil
}

// RequireAll validates every credential in the map and reports the first
// failure. Iteration order is not significant; startup halts either way.
func RequireAll(required map[string]string) error {
	for name, value := range required {
		if err := Require(name, value); err != nil {
			return err
		}
	}
	return nil
}
