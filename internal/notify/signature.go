package notify

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// ComputeSignature builds the provider's request signature: base64 of
// HMAC-SHA1 over the callback URL with the form parameters appended in
// lexical order, keyed by the account auth token.
func ComputeSignature(authToken, callbackURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(callbackURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a status-callback signature in constant time.
func VerifySignature(authToken, callbackURL string, form url.Values, signature string) bool {
	expected := ComputeSignature(authToken, callbackURL, form)
	return hmac.Equal([]byte(expected), []byte(signature))
}
