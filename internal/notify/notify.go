// Package notify delivers SMS notifications through the Twilio Messages API.
package notify

import (
	"regexp"

	dErrors "fides/pkg/domain-errors"
)

// e164 is the accepted phone number shape: leading +, 8 to 15 digits,
// no leading zero.
var e164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

const (
	maxSubjectLen = 200
	maxTextLen    = 5000
)

// Notification is one outbound SMS. Subject and Text are joined by the
// transport into the message body.
type Notification struct {
	To      string
	Subject string
	Text    string
}

// Validate checks the notification against the input limits.
func (n Notification) Validate() error {
	if !e164.MatchString(n.To) {
		return dErrors.New(dErrors.CodeInvalidInput, "to must be an E.164 phone number")
	}
	if n.Subject == "" || len(n.Subject) > maxSubjectLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "subject must be 1-%d characters", maxSubjectLen)
	}
	if n.Text == "" || len(n.Text) > maxTextLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "text must be 1-%d characters", maxTextLen)
	}
	return nil
}

// MaskPhone hides the middle of a phone number for logs, keeping enough of
// both ends to correlate entries.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return "***"
	}
	return phone[:4] + "***" + phone[len(phone)-2:]
}
